package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/leanderkyvelos-create/MoodCam/internal/mood"
	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

var errFeed = errors.New("feed error")

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

var feedColumns = []string{
	"id", "user_id", "image_src", "mood", "region", "location", "is_public", "likes", "comments", "created_at",
	"author_id", "author_name", "author_handle", "author_avatar", "author_region", "author_location", "author_friends", "author_settings",
}

func feedRow(rows *pgxmock.Rows, postID, userID string, isPublic bool, createdAt time.Time, private bool) *pgxmock.Rows {
	settings := profile.Settings{Theme: "dark", Language: "en", PrivateAccount: private}
	return rows.AddRow(postID, userID, "https://img", mood.Fallback(), "EU", "Berlin", isPublic,
		[]string{}, []Comment{}, createdAt,
		ptr(userID), ptr("name"), ptr("name#111111"), ptr(""), ptr("EU"), ptr("Berlin"),
		[]string{}, &settings)
}

func ptr(s string) *string { return &s }

func TestCreatePostDerivesPrivacyFromAccount(t *testing.T) {
	mock := newMock(t)

	// privateAccount=true and no explicit flag means not public.
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("alice", "https://img", mood.Fallback(), "EU", "Berlin", false).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("post-1", time.Now()))

	author := profile.Profile{ID: "alice", Region: "EU", Location: "Berlin", Settings: profile.DefaultSettings()}
	svc := NewService(mock)
	post, err := svc.CreatePost(context.Background(), author, CreatePostInput{ImageSrc: "https://img", Mood: mood.Fallback()})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if post.ID != "post-1" || post.IsPublic {
		t.Fatalf("unexpected post: %+v", post)
	}
	if post.Region != "EU" || post.Location != "Berlin" {
		t.Fatalf("expected author region/location copied: %+v", post)
	}
}

func TestCreatePostExplicitOverride(t *testing.T) {
	mock := newMock(t)

	// Explicit is_public=true wins over the private account default.
	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("alice", "https://img", mood.Fallback(), "GLOBAL", "Unknown", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow("post-1", time.Now()))

	author := profile.Profile{ID: "alice", Settings: profile.DefaultSettings()}
	public := true
	svc := NewService(mock)
	post, err := svc.CreatePost(context.Background(), author, CreatePostInput{
		ImageSrc: "https://img", Mood: mood.Fallback(), IsPublic: &public,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if !post.IsPublic {
		t.Fatalf("expected public post")
	}
}

func TestCreatePostError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO posts`).
		WithArgs("alice", "https://img", mood.Fallback(), "GLOBAL", "Unknown", false).
		WillReturnError(errFeed)

	author := profile.Profile{ID: "alice", Settings: profile.DefaultSettings()}
	svc := NewService(mock)
	if _, err := svc.CreatePost(context.Background(), author, CreatePostInput{ImageSrc: "https://img", Mood: mood.Fallback()}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetFeedFiltersVisibility(t *testing.T) {
	mock := newMock(t)

	now := time.Now()
	rows := pgxmock.NewRows(feedColumns)
	rows = feedRow(rows, "own", "alice", false, now, true)
	rows = feedRow(rows, "friend", "bob", false, now.Add(-time.Minute), true)
	rows = feedRow(rows, "public-stranger", "carol", true, now.Add(-2*time.Minute), true)
	rows = feedRow(rows, "private-stranger", "dave", false, now.Add(-3*time.Minute), true)

	mock.ExpectQuery(`FROM posts p`).
		WithArgs("", feedPageSize).
		WillReturnRows(rows)

	viewer := profile.Profile{ID: "alice", Friends: []string{"bob"}}
	svc := NewService(mock)
	posts, err := svc.GetFeed(context.Background(), viewer, ScopeGlobal)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 visible posts, got %d", len(posts))
	}
	// Descending order must survive the filter pass.
	if posts[0].ID != "own" || posts[1].ID != "friend" || posts[2].ID != "public-stranger" {
		t.Fatalf("unexpected order: %v %v %v", posts[0].ID, posts[1].ID, posts[2].ID)
	}
}

func TestGetFeedFriendsScope(t *testing.T) {
	mock := newMock(t)

	now := time.Now()
	rows := pgxmock.NewRows(feedColumns)
	rows = feedRow(rows, "friend", "bob", false, now, true)
	rows = feedRow(rows, "public-stranger", "carol", true, now.Add(-time.Minute), false)

	mock.ExpectQuery(`FROM posts p`).
		WithArgs("", feedPageSize).
		WillReturnRows(rows)

	viewer := profile.Profile{ID: "alice", Friends: []string{"bob"}}
	svc := NewService(mock)
	posts, err := svc.GetFeed(context.Background(), viewer, ScopeFriends)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "friend" {
		t.Fatalf("expected only the friend post, got %+v", posts)
	}
}

func TestGetFeedEuropeRegionFilter(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM posts p`).
		WithArgs("EU", feedPageSize).
		WillReturnRows(pgxmock.NewRows(feedColumns))

	viewer := profile.Profile{ID: "alice"}
	svc := NewService(mock)
	posts, err := svc.GetFeed(context.Background(), viewer, ScopeEurope)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("expected empty feed")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetFeedDropsUnresolvedAuthor(t *testing.T) {
	mock := newMock(t)

	rows := pgxmock.NewRows(feedColumns).AddRow(
		"orphan", "ghost", "https://img", mood.Fallback(), "EU", "Berlin", true,
		[]string{}, []Comment{}, time.Now(),
		nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`FROM posts p`).
		WithArgs("", feedPageSize).
		WillReturnRows(rows)

	viewer := profile.Profile{ID: "alice"}
	svc := NewService(mock)
	posts, err := svc.GetFeed(context.Background(), viewer, ScopeGlobal)
	if err != nil {
		t.Fatalf("get feed: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("post with no resolvable author must be invisible")
	}
}

func TestGetFeedQueryError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM posts p`).
		WithArgs("", feedPageSize).
		WillReturnError(errFeed)

	svc := NewService(mock)
	if _, err := svc.GetFeed(context.Background(), profile.Profile{ID: "alice"}, ScopeGlobal); err == nil {
		t.Fatalf("expected error")
	}
}

func TestToggleLike(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE posts`).
		WithArgs("post-1", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	svc := NewService(mock)
	if err := svc.ToggleLike(context.Background(), "post-1", "alice"); err != nil {
		t.Fatalf("toggle like: %v", err)
	}
}

func TestToggleLikeNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE posts`).
		WithArgs("missing", "alice").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewService(mock)
	if err := svc.ToggleLike(context.Background(), "missing", "alice"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestToggleLikeError(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE posts`).
		WithArgs("post-1", "alice").
		WillReturnError(errFeed)

	svc := NewService(mock)
	if err := svc.ToggleLike(context.Background(), "post-1", "alice"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAddComment(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE posts`).
		WithArgs("post-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	author := profile.Profile{ID: "alice", Name: "Anna", AvatarURL: "https://avatar"}
	svc := NewService(mock)
	comment, err := svc.AddComment(context.Background(), "post-1", author, "nice mood")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.ID == "" || comment.UserID != "alice" || comment.Username != "Anna" {
		t.Fatalf("unexpected comment: %+v", comment)
	}
	if comment.Text != "nice mood" {
		t.Fatalf("unexpected text: %q", comment.Text)
	}
}

func TestAddCommentNotFound(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`UPDATE posts`).
		WithArgs("missing", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	svc := NewService(mock)
	if _, err := svc.AddComment(context.Background(), "missing", profile.Profile{ID: "alice"}, "hi"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
