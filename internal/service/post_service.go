package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/cache"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
	"github.com/spec-kit/blog-service/internal/storage"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const autoDraftTitle = "Untitled Draft"

const publicPostCacheTTL = 5 * time.Minute

// PostService coordinates the blog post lifecycle. Ownership is enforced by
// owner-scoped repository lookups: a foreign post is indistinguishable from
// a missing one.
type PostService struct {
	posts      repository.PostRepository
	blobs      storage.BlobStorage
	cache      *cache.Cache
	dispatcher events.Dispatcher
}

// PostDependencies bundles collaborators for the post service.
type PostDependencies struct {
	PostRepo   repository.PostRepository
	Blobs      storage.BlobStorage
	Cache      *cache.Cache
	Dispatcher events.Dispatcher
}

// SavePostInput describes the combined create-or-update payload.
type SavePostInput struct {
	ID      string
	Title   string
	Content string
	Tags    []string
	Status  string
}

// AdminUpdateInput describes the admin update-by-id payload. Nil fields are
// left untouched.
type AdminUpdateInput struct {
	Title   *string
	Content *string
	Status  *string
}

// NewPostService constructs the service.
func NewPostService(deps PostDependencies) *PostService {
	return &PostService{
		posts:      deps.PostRepo,
		blobs:      deps.Blobs,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// Save creates a post when no id is supplied, otherwise updates an existing
// post owned by the caller. Title, content and tags are replaced; status
// changes only when supplied. The published invariant is re-validated on the
// resulting state, never trusted from prior state.
func (s *PostService) Save(ctx context.Context, ownerID string, input SavePostInput) (*domain.BlogPost, error) {
	status := domain.PostStatus(input.Status)
	if input.Status != "" && !domain.ValidPostStatus(status) {
		return nil, apperrors.NewValidationError("status must be draft or published", nil)
	}

	if input.ID == "" {
		if status == "" {
			status = domain.PostStatusDraft
		}
		post := &domain.BlogPost{
			OwnerID: ownerID,
			Title:   input.Title,
			Content: input.Content,
			Tags:    input.Tags,
			Status:  status,
		}
		if err := validatePublishable(post); err != nil {
			return nil, err
		}
		if err := s.posts.Create(ctx, post); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.afterMutation(ctx, post, domain.PostStatusDraft)
		return post, nil
	}

	post, err := s.posts.GetByIDForOwner(ctx, input.ID, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := post.Status
	post.Title = input.Title
	post.Content = input.Content
	post.Tags = input.Tags
	if status != "" {
		post.Status = status
	}
	if err := validatePublishable(post); err != nil {
		return nil, err
	}
	// Concurrent saves of the same post race at the storage layer with
	// last-write-wins semantics; no optimistic concurrency token is kept.
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.afterMutation(ctx, post, oldStatus)
	return post, nil
}

// CreateDraft creates an empty auto-draft owned by the caller.
func (s *PostService) CreateDraft(ctx context.Context, ownerID string) (*domain.BlogPost, error) {
	post := &domain.BlogPost{
		OwnerID: ownerID,
		Title:   autoDraftTitle,
		Content: "",
		Tags:    []string{},
		Status:  domain.PostStatusDraft,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, apperrors.MapError(err)
	}
	return post, nil
}

// ListMine returns all caller-owned posts, most recently updated first.
func (s *PostService) ListMine(ctx context.Context, ownerID string) ([]domain.BlogPost, error) {
	posts, err := s.posts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	return posts, nil
}

// Delete permanently removes a caller-owned post.
func (s *PostService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.posts.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("post", nil)
		}
		return apperrors.MapError(err)
	}
	s.invalidate(ctx, id)
	s.publishEvent(ctx, events.Event{Type: events.EventPostDeleted, UserID: ownerID, PostID: id})
	return nil
}

// Publish transitions a draft to published, requiring non-empty title and
// content at the moment of transition.
func (s *PostService) Publish(ctx context.Context, ownerID, id string) (*domain.BlogPost, error) {
	post, err := s.posts.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if post.Published() {
		return nil, apperrors.NewInvalidState("post is already published")
	}

	post.Status = domain.PostStatusPublished
	if err := validatePublishable(post); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, post.ID)
	s.publishEvent(ctx, events.Event{
		Type:    events.EventPostPublished,
		UserID:  ownerID,
		PostID:  post.ID,
		Payload: events.PostPublishedPayload{Title: post.Title},
	})
	return post, nil
}

// Unpublish transitions a published post back to draft.
func (s *PostService) Unpublish(ctx context.Context, ownerID, id string) (*domain.BlogPost, error) {
	post, err := s.posts.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if !post.Published() {
		return nil, apperrors.NewInvalidState("post is not published yet")
	}

	post.Status = domain.PostStatusDraft
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, post.ID)
	s.publishEvent(ctx, events.Event{Type: events.EventPostUnpublished, UserID: ownerID, PostID: post.ID})
	return post, nil
}

// AdminUpdate updates any post by id. Callers must hold the admin role;
// the route-level middleware enforces that. The published invariant still
// applies to the resulting state.
func (s *PostService) AdminUpdate(ctx context.Context, id string, input AdminUpdateInput) (*domain.BlogPost, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := post.Status
	if input.Title != nil {
		post.Title = *input.Title
	}
	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.Status != nil {
		status := domain.PostStatus(*input.Status)
		if !domain.ValidPostStatus(status) {
			return nil, apperrors.NewValidationError("status must be draft or published", nil)
		}
		post.Status = status
	}
	if err := validatePublishable(post); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.afterMutation(ctx, post, oldStatus)
	return post, nil
}

// GetPublished returns a single published post for public viewing, served
// from the Redis cache when warm. Drafts are invisible here.
func (s *PostService) GetPublished(ctx context.Context, id string) (*domain.BlogPost, error) {
	load := func(ctx context.Context) (*domain.BlogPost, error) {
		post, err := s.posts.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("post", nil)
			}
			return nil, apperrors.MapError(err)
		}
		if !post.Published() {
			return nil, apperrors.NewNotFound("post", nil)
		}
		return post, nil
	}

	if s.cache == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(s.cache, ctx, publicPostKey(id), publicPostCacheTTL, load)
}

// UploadThumbnail stores the file via blob storage and returns its public
// reference. Attaching the reference to a post happens through Save.
func (s *PostService) UploadThumbnail(ctx context.Context, ownerID, fileName, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.NewValidationError("no file uploaded", nil)
	}
	url, err := s.blobs.Store(ctx, fileName, contentType, data)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return url, nil
}

// validatePublishable enforces the published invariant on the post's
// current (resulting) state.
func validatePublishable(post *domain.BlogPost) error {
	if post.Status != domain.PostStatusPublished {
		return nil
	}
	if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Content) == "" {
		return apperrors.NewValidationError("published posts require a title and content", nil)
	}
	return nil
}

func publicPostKey(id string) string {
	return "post:public:" + id
}

func (s *PostService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, publicPostKey(id))
}

func (s *PostService) afterMutation(ctx context.Context, post *domain.BlogPost, oldStatus domain.PostStatus) {
	s.invalidate(ctx, post.ID)
	if oldStatus != domain.PostStatusPublished && post.Published() {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventPostPublished,
			UserID:  post.OwnerID,
			PostID:  post.ID,
			Payload: events.PostPublishedPayload{Title: post.Title},
		})
	}
}

func (s *PostService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
