package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/blog-service/internal/domain"
)

// PostRepository encapsulates blog post persistence. Owner-scoped lookups
// return pgx.ErrNoRows for posts owned by someone else, so callers cannot
// distinguish foreign posts from missing ones.
type PostRepository interface {
	Create(ctx context.Context, post *domain.BlogPost) error
	Update(ctx context.Context, post *domain.BlogPost) error
	GetByID(ctx context.Context, id string) (*domain.BlogPost, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*domain.BlogPost, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.BlogPost, error)
	Delete(ctx context.Context, id, ownerID string) error
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository instantiates repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

func (r *postRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        INSERT INTO blog_posts (owner_user_id, title, content, tags, status, thumbnail)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		post.OwnerID,
		post.Title,
		post.Content,
		tags,
		post.Status,
		post.Thumbnail,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	const query = `
        UPDATE blog_posts SET title=$1, content=$2, tags=$3, status=$4, thumbnail=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		post.Title,
		post.Content,
		tags,
		post.Status,
		post.Thumbnail,
		post.ID,
	).Scan(&post.UpdatedAt)
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.BlogPost, error) {
	const query = `
        SELECT id, owner_user_id, title, content, tags, status, thumbnail, created_at, updated_at
        FROM blog_posts WHERE id=$1`

	return r.scanPost(r.pool.QueryRow(ctx, query, id))
}

func (r *postRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*domain.BlogPost, error) {
	const query = `
        SELECT id, owner_user_id, title, content, tags, status, thumbnail, created_at, updated_at
        FROM blog_posts WHERE id=$1 AND owner_user_id=$2`

	return r.scanPost(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *postRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.BlogPost, error) {
	const query = `
        SELECT id, owner_user_id, title, content, tags, status, thumbnail, created_at, updated_at
        FROM blog_posts WHERE owner_user_id=$1
        ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.BlogPost
	for rows.Next() {
		var post domain.BlogPost
		if err := rows.Scan(
			&post.ID,
			&post.OwnerID,
			&post.Title,
			&post.Content,
			&post.Tags,
			&post.Status,
			&post.Thumbnail,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, rows.Err()
}

func (r *postRepository) Delete(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM blog_posts WHERE id=$1 AND owner_user_id=$2`

	cmd, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) scanPost(row pgx.Row) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := row.Scan(
		&post.ID,
		&post.OwnerID,
		&post.Title,
		&post.Content,
		&post.Tags,
		&post.Status,
		&post.Thumbnail,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
