package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/leanderkyvelos-create/MoodCam/internal/db"
	"github.com/leanderkyvelos-create/MoodCam/internal/mood"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

var ErrReceiverNotFound = errors.New("receiver profile not found")

const lastMessageSQL = `
	SELECT content, created_at FROM messages
	WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
	ORDER BY created_at DESC LIMIT 1`

const messagesSQL = `
	SELECT m.id, m.sender_id, m.receiver_id, m.content, m.shared_post_id, m.created_at,
	       p.id, p.user_id, p.image_src, p.mood, p.is_public, p.likes, p.created_at
	FROM messages m
	LEFT JOIN posts p ON p.id = m.shared_post_id
	WHERE (m.sender_id = $1 AND m.receiver_id = $2) OR (m.sender_id = $2 AND m.receiver_id = $1)
	ORDER BY m.created_at ASC`

const insertMessageSQL = `
	INSERT INTO messages (id, sender_id, receiver_id, content, shared_post_id)
	VALUES (gen_random_uuid(), $1, $2, $3, $4)
	RETURNING id, created_at`

const sharedPostSQL = `
	SELECT id, user_id, image_src, mood, is_public, likes, created_at
	FROM posts WHERE id = $1`

type Service struct {
	db       db.Querier
	profiles *profile.Service
}

func NewService(database db.Querier, profiles *profile.Service) *Service {
	return &Service{db: database, profiles: profiles}
}

// Threads derives one conversation per friend edge. Friends without any
// message history still get a thread so the client can open an empty
// conversation.
func (s *Service) Threads(ctx context.Context, me profile.Profile) ([]Thread, error) {
	if len(me.Friends) == 0 {
		return []Thread{}, nil
	}

	friends, err := s.profiles.GetMany(ctx, me.Friends)
	if err != nil {
		return nil, fmt.Errorf("load friend profiles: %w", err)
	}

	threads := make([]Thread, 0, len(friends))
	for _, friend := range friends {
		thread := Thread{
			ID:            threadID(me.ID, friend.ID),
			ParticipantID: friend.ID,
			User:          friend,
		}
		err := s.db.QueryRow(ctx, lastMessageSQL, me.ID, friend.ID).
			Scan(&thread.LastMessage, &thread.Timestamp)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("last message for %s: %w", friend.ID, err)
		}
		threads = append(threads, thread)
	}

	// Most recent activity first; silent threads sink to the bottom.
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].Timestamp.After(threads[j].Timestamp)
	})
	return threads, nil
}

// Messages returns the full history between the caller and one friend,
// oldest first, with shared posts resolved inline.
func (s *Service) Messages(ctx context.Context, meID, friendID string) ([]Message, error) {
	rows, err := s.db.Query(ctx, messagesSQL, meID, friendID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	messages := []Message{}
	for rows.Next() {
		var (
			msg          Message
			sharedPostID *string
			postID       *string
			postUserID   *string
			postImage    *string
			postMood     *mood.Result
			postPublic   *bool
			postLikes    []string
			postCreated  *time.Time
		)
		err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &sharedPostID, &msg.CreatedAt,
			&postID, &postUserID, &postImage, &postMood, &postPublic, &postLikes, &postCreated)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if sharedPostID != nil {
			msg.SharedPostID = *sharedPostID
		}
		// A dangling shared_post_id (post deleted since) leaves the
		// projection nil rather than failing the whole history.
		if postID != nil {
			shared := SharedPost{ID: *postID, CreatedAt: *postCreated}
			if postUserID != nil {
				shared.UserID = *postUserID
			}
			if postImage != nil {
				shared.ImageSrc = *postImage
			}
			if postMood != nil {
				shared.Mood = *postMood
			}
			if postPublic != nil {
				shared.IsPublic = *postPublic
			}
			shared.Likes = postLikes
			if shared.Likes == nil {
				shared.Likes = []string{}
			}
			msg.SharedPost = &shared
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// Send stores a message after confirming the receiver exists. Friendship
// is not required; the friend graph only controls which threads are
// listed, not who may be written to.
func (s *Service) Send(ctx context.Context, senderID, receiverID, content, sharedPostID string) (Message, error) {
	if _, err := s.profiles.Get(ctx, receiverID); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return Message{}, ErrReceiverNotFound
		}
		return Message{}, fmt.Errorf("lookup receiver: %w", err)
	}

	msg := Message{
		SenderID:     senderID,
		ReceiverID:   receiverID,
		Content:      content,
		SharedPostID: sharedPostID,
	}

	var sharedRef *string
	if sharedPostID != "" {
		sharedRef = &sharedPostID
	}
	err := s.db.QueryRow(ctx, insertMessageSQL, senderID, receiverID, content, sharedRef).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return Message{}, fmt.Errorf("insert message: %w", err)
	}

	if sharedPostID != "" {
		shared, err := s.sharedPost(ctx, sharedPostID)
		if err != nil {
			return Message{}, err
		}
		msg.SharedPost = shared
	}
	return msg, nil
}

func (s *Service) sharedPost(ctx context.Context, postID string) (*SharedPost, error) {
	var shared SharedPost
	err := s.db.QueryRow(ctx, sharedPostSQL, postID).
		Scan(&shared.ID, &shared.UserID, &shared.ImageSrc, &shared.Mood, &shared.IsPublic, &shared.Likes, &shared.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load shared post: %w", err)
	}
	if shared.Likes == nil {
		shared.Likes = []string{}
	}
	return &shared, nil
}

// threadID is stable regardless of which side asks for the thread list.
func threadID(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}
