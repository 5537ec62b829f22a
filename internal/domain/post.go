package domain

import "time"

// PostStatus enumerates lifecycle states for blog posts.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// ValidPostStatus reports whether the status is a known value.
func ValidPostStatus(s PostStatus) bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// BlogPost is the aggregate for authored posts. OwnerID is immutable after
// creation. A post in published status always has non-empty title and
// content; the post service re-checks this on every transition into
// published rather than trusting prior state.
type BlogPost struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	Tags      []string
	Status    PostStatus
	Thumbnail *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Published reports whether the post is currently published.
func (p *BlogPost) Published() bool {
	return p.Status == PostStatusPublished
}
