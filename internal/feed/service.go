package feed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/leanderkyvelos-create/MoodCam/internal/db"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

var ErrPostNotFound = errors.New("post not found")

const feedPageSize = 50

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// CreatePost inserts a post. Region and location are copied from the
// author's profile at creation time; the effective public flag applies
// the privacy precedence (explicit override, else the inverse of the
// author's privateAccount setting).
func (s *Service) CreatePost(ctx context.Context, author profile.Profile, input CreatePostInput) (Post, error) {
	isPublic := !author.Settings.PrivateAccount
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	regionTag := author.Region
	if regionTag == "" {
		regionTag = "GLOBAL"
	}
	location := author.Location
	if location == "" {
		location = "Unknown"
	}

	post := Post{
		UserID:       author.ID,
		UserSnapshot: author,
		ImageSrc:     input.ImageSrc,
		Mood:         input.Mood,
		Region:       regionTag,
		Location:     location,
		IsPublic:     isPublic,
		Likes:        []string{},
		Comments:     []Comment{},
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (user_id, image_src, mood, region, location, is_public)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`, post.UserID, post.ImageSrc, post.Mood, post.Region, post.Location, post.IsPublic)
	if err := row.Scan(&post.ID, &post.CreatedAt); err != nil {
		return Post{}, err
	}
	return post, nil
}

// GetFeed returns the newest posts visible to the viewer in the given
// scope, descending by creation time, capped at one page. The EUROPE
// scope narrows the fetch to EU-tagged rows server-side before the
// visibility filter runs; posts whose author row no longer resolves
// are dropped.
func (s *Service) GetFeed(ctx context.Context, viewer profile.Profile, scope Scope) ([]Post, error) {
	regionFilter := ""
	if scope == ScopeEurope {
		regionFilter = "EU"
	}

	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.user_id, p.image_src, p.mood, p.region, p.location, p.is_public, p.likes, p.comments, p.created_at,
		       pr.id, pr.name, pr.handle, pr.avatar_url, pr.region, pr.location, pr.friends, pr.settings
		FROM posts p
		LEFT JOIN profiles pr ON pr.id = p.user_id
		WHERE $1 = '' OR p.region = $1
		ORDER BY p.created_at DESC
		LIMIT $2
	`, regionFilter, feedPageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		var authorID, authorName, authorHandle, authorAvatar, authorRegion, authorLocation *string
		var authorFriends []string
		var authorSettings *profile.Settings

		err := rows.Scan(&p.ID, &p.UserID, &p.ImageSrc, &p.Mood, &p.Region, &p.Location, &p.IsPublic, &p.Likes, &p.Comments, &p.CreatedAt,
			&authorID, &authorName, &authorHandle, &authorAvatar, &authorRegion, &authorLocation, &authorFriends, &authorSettings)
		if err != nil {
			return nil, err
		}
		if authorID == nil {
			// No resolvable author means the post is invisible.
			continue
		}

		p.UserSnapshot = profile.Profile{
			ID:        *authorID,
			Name:      deref(authorName),
			Handle:    deref(authorHandle),
			AvatarURL: deref(authorAvatar),
			Region:    deref(authorRegion),
			Location:  deref(authorLocation),
			Friends:   authorFriends,
		}
		if authorSettings != nil {
			p.UserSnapshot.Settings = *authorSettings
		} else {
			p.UserSnapshot.Settings = profile.DefaultSettings()
		}
		if p.Likes == nil {
			p.Likes = []string{}
		}
		if p.Comments == nil {
			p.Comments = []Comment{}
		}

		if Visible(viewer, p, scope) {
			posts = append(posts, p)
		}
	}
	return posts, rows.Err()
}

// ToggleLike flips the viewer's membership in the post's like set. The
// whole flip is one SQL statement, so concurrent likes on the same
// post cannot overwrite each other.
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE posts
		SET likes = CASE
			WHEN likes ? $2 THEN (
				SELECT coalesce(jsonb_agg(elem), '[]'::jsonb)
				FROM jsonb_array_elements_text(likes) elem
				WHERE elem != $2
			)
			ELSE coalesce(likes, '[]'::jsonb) || to_jsonb($2::text)
		END
		WHERE id = $1
	`, postID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddComment appends a comment carrying a snapshot of the author's
// display fields. Comments are append-only, in insertion order.
func (s *Service) AddComment(ctx context.Context, postID string, author profile.Profile, text string) (Comment, error) {
	comment := Comment{
		ID:        uuid.NewString(),
		UserID:    author.ID,
		Username:  author.Name,
		AvatarURL: author.AvatarURL,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE posts
		SET comments = coalesce(comments, '[]'::jsonb) || $2
		WHERE id = $1
	`, postID, comment)
	if err != nil {
		return Comment{}, err
	}
	if tag.RowsAffected() == 0 {
		return Comment{}, ErrPostNotFound
	}
	return comment, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
