package feed

import (
	"errors"
	"time"

	"github.com/leanderkyvelos-create/MoodCam/internal/mood"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

// Scope selects the feed audience filter.
type Scope string

const (
	ScopeFriends Scope = "FRIENDS"
	ScopeEurope  Scope = "EUROPE"
	ScopeGlobal  Scope = "GLOBAL"
)

var ErrInvalidScope = errors.New("invalid feed scope")

func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeFriends, ScopeEurope, ScopeGlobal:
		return Scope(s), nil
	case "":
		return ScopeFriends, nil
	default:
		return "", ErrInvalidScope
	}
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	AvatarURL string    `json:"avatar_url"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Post struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	// UserSnapshot is the author profile captured when the feed row was
	// assembled. It is a denormalized projection and may lag behind the
	// live profile; it is never refreshed after the fact.
	UserSnapshot profile.Profile `json:"user_snapshot"`
	ImageSrc     string          `json:"image_src"`
	Mood         mood.Result     `json:"mood"`
	Region       string          `json:"region"`
	Location     string          `json:"location"`
	IsPublic     bool            `json:"is_public"`
	Likes        []string        `json:"likes"`
	Comments     []Comment       `json:"comments"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CreatePostInput carries the caller-provided post fields. IsPublic nil
// means "derive from the author's account privacy setting".
type CreatePostInput struct {
	ImageSrc string      `json:"image_src"`
	Mood     mood.Result `json:"mood"`
	IsPublic *bool       `json:"is_public"`
}
