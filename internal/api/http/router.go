package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Posts          *handlers.PostsHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
	UploadsPath    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Locally stored thumbnails are public.
	app.Static(cfg.UploadsPath, cfg.UploadsDir)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/request-reset", cfg.Auth.RequestReset)
	authGroup.Post("/confirm-reset", cfg.Auth.ConfirmReset)
	authGroup.Post("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	posts := app.Group("/posts")
	posts.Get("/:id<guid>", cfg.Posts.GetPublic)

	owned := posts.Group("", cfg.AuthMiddleware.Handle)
	owned.Post("/save", cfg.Posts.Save)
	owned.Get("/mine", cfg.Posts.Mine)
	owned.Post("/auto-draft", cfg.Posts.AutoDraft)
	owned.Post("/thumbnail", cfg.Posts.UploadThumbnail)
	owned.Delete("/:id", cfg.Posts.Delete)
	owned.Put("/:id/publish", cfg.Posts.Publish)
	owned.Put("/:id/unpublish", cfg.Posts.Unpublish)
	owned.Put("/:id", auth.RequireAdmin(), cfg.Posts.AdminUpdate)
}
