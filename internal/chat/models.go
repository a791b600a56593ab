package chat

import (
	"time"

	"github.com/leanderkyvelos-create/MoodCam/internal/mood"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

// SharedPost is the projection of a post attached to a message. It
// intentionally carries no author snapshot; clients resolve the author
// from user_id when they need it.
type SharedPost struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	ImageSrc  string      `json:"image_src"`
	Mood      mood.Result `json:"mood"`
	IsPublic  bool        `json:"is_public"`
	Likes     []string    `json:"likes"`
	CreatedAt time.Time   `json:"created_at"`
}

type Message struct {
	ID           string      `json:"id"`
	SenderID     string      `json:"sender_id"`
	ReceiverID   string      `json:"receiver_id"`
	Content      string      `json:"content"`
	SharedPostID string      `json:"shared_post_id,omitempty"`
	SharedPost   *SharedPost `json:"shared_post,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Thread is derived, not stored: one per friend-graph edge, with the
// last message computed from the message history.
type Thread struct {
	ID            string          `json:"id"`
	ParticipantID string          `json:"participant_id"`
	User          profile.Profile `json:"user"`
	LastMessage   string          `json:"last_message"`
	Timestamp     time.Time       `json:"timestamp"`
}
