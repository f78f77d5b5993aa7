package domain

import (
	"time"

	"github.com/google/uuid"
)

// Broker topics, one per event kind.
const (
	TopicPostViews           = "post_views"
	TopicPostLikes           = "post_likes"
	TopicPostComments        = "post_comments"
	TopicClientRegistrations = "client_registrations"
)

// PostActionTopics is the exact topic set the stats consumer subscribes to.
// Registration events are consumed by other services.
var PostActionTopics = []string{TopicPostViews, TopicPostLikes, TopicPostComments}

// ViewEvent records a single post view. The view id is generated for
// traceability and is not used for deduplication.
type ViewEvent struct {
	ViewID   string `json:"view_id"`
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	ViewedAt Time   `json:"viewed_at"`
}

// LikeEvent records a single post like. The source service enforces one like
// per (post, user); the analytical store does not, so redelivery produces
// duplicate rows.
type LikeEvent struct {
	LikeID  string `json:"like_id"`
	PostID  string `json:"post_id"`
	UserID  string `json:"user_id"`
	LikedAt Time   `json:"liked_at"`
}

// CommentEvent records a single comment on a post.
type CommentEvent struct {
	CommentID string `json:"comment_id"`
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Text      string `json:"text"`
	CreatedAt Time   `json:"created_at"`
}

// RegistrationEvent records a new client registration. It shares the publish
// contract with the post-action events but is not stored by this service.
type RegistrationEvent struct {
	ClientID         string `json:"client_id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	RegistrationTime Time   `json:"registration_time"`
}

// NewViewEvent creates a view event with a generated id.
func NewViewEvent(postID, userID string, viewedAt time.Time) *ViewEvent {
	return &ViewEvent{
		ViewID:   uuid.NewString(),
		PostID:   postID,
		UserID:   userID,
		ViewedAt: NewTime(viewedAt),
	}
}

// NewLikeEvent creates a like event with a generated id.
func NewLikeEvent(postID, userID string, likedAt time.Time) *LikeEvent {
	return &LikeEvent{
		LikeID:  uuid.NewString(),
		PostID:  postID,
		UserID:  userID,
		LikedAt: NewTime(likedAt),
	}
}

// NewCommentEvent creates a comment event with a generated id.
func NewCommentEvent(postID, userID, text string, createdAt time.Time) *CommentEvent {
	return &CommentEvent{
		CommentID: uuid.NewString(),
		PostID:    postID,
		UserID:    userID,
		Text:      text,
		CreatedAt: NewTime(createdAt),
	}
}

// NewRegistrationEvent creates a registration event for a new client.
func NewRegistrationEvent(clientID, username, email string, registeredAt time.Time) *RegistrationEvent {
	return &RegistrationEvent{
		ClientID:         clientID,
		Username:         username,
		Email:            email,
		RegistrationTime: NewTime(registeredAt),
	}
}
