package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/leanderkyvelos-create/MoodCam/internal/db"
)

var ErrNotFound = errors.New("profile not found")

const (
	searchLimit = 20
	cacheTTL    = 5 * time.Minute
)

type Service struct {
	db  db.Querier
	rdb *redis.Client
}

// NewService builds a profile service. rdb may be nil, which disables
// the cache-aside layer.
func NewService(db db.Querier, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

const profileColumns = `id, name, handle, avatar_url, region, location, friends, incoming_requests, outgoing_requests, settings`

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	if p, ok := s.cacheGet(ctx, id); ok {
		return p, nil
	}

	row := s.db.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE id=$1
	`, id)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, ErrNotFound
	}
	if err != nil {
		return Profile{}, err
	}
	s.cacheSet(ctx, p)
	return p, nil
}

// EnsureOptions carries the optional registration metadata for profile
// provisioning. Zero values fall back to sane defaults.
type EnsureOptions struct {
	Handle    string
	AvatarURL string
	Private   bool
	Region    string
	Location  string
}

// EnsureProfile idempotently provisions the profile row for a user.
// It backs both registration and the login fallback path for accounts
// whose profile creation lagged or failed.
func (s *Service) EnsureProfile(ctx context.Context, id, username string, opts EnsureOptions) (Profile, error) {
	handle := opts.Handle
	if handle == "" {
		handle = GenerateHandle(username)
	}
	avatarURL := opts.AvatarURL
	if avatarURL == "" {
		avatarURL = AvatarURL(username + handle)
	}
	regionTag := opts.Region
	if regionTag == "" {
		regionTag = "GLOBAL"
	}
	location := opts.Location
	if location == "" {
		location = "Unknown"
	}
	settings := DefaultSettings()
	settings.PrivateAccount = opts.Private

	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (id, name, handle, avatar_url, region, location, settings)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO NOTHING
	`, id, username, handle, avatarURL, regionTag, location, settings)
	if err != nil {
		return Profile{}, err
	}

	s.Invalidate(ctx, id)
	return s.Get(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id, name, avatarURL string) (Profile, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	if name != "" {
		current.Name = name
	}
	if avatarURL != "" {
		current.AvatarURL = avatarURL
	}

	_, err = s.db.Exec(ctx, `
		UPDATE profiles SET name=$2, avatar_url=$3 WHERE id=$1
	`, id, current.Name, current.AvatarURL)
	if err != nil {
		return Profile{}, err
	}
	s.Invalidate(ctx, id)
	s.cacheSet(ctx, current)
	return current, nil
}

func (s *Service) UpdateSettings(ctx context.Context, id string, settings Settings) (Profile, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	current.Settings = settings

	_, err = s.db.Exec(ctx, `
		UPDATE profiles SET settings=$2 WHERE id=$1
	`, id, settings)
	if err != nil {
		return Profile{}, err
	}
	s.Invalidate(ctx, id)
	s.cacheSet(ctx, current)
	return current, nil
}

// Search matches name and handle case-insensitively, excludes the
// caller, and caps results.
func (s *Service) Search(ctx context.Context, selfID, query string) ([]Profile, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	rows, err := s.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE (name ILIKE $2 OR handle ILIKE $2) AND id != $1
		LIMIT $3
	`, selfID, pattern, searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// GetMany fetches profiles by id, skipping ids with no row.
func (s *Service) GetMany(ctx context.Context, ids []string) ([]Profile, error) {
	if len(ids) == 0 {
		return []Profile{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+profileColumns+`
		FROM profiles WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProfiles(rows)
}

// Invalidate drops cached entries after a write. Graph mutations call
// this for both touched profiles.
func (s *Service) Invalidate(ctx context.Context, ids ...string) {
	if s.rdb == nil {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}
	s.rdb.Del(ctx, keys...)
}

func (s *Service) cacheGet(ctx context.Context, id string) (Profile, bool) {
	if s.rdb == nil {
		return Profile{}, false
	}
	raw, err := s.rdb.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		return Profile{}, false
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, false
	}
	p.normalize()
	return p, true
}

func (s *Service) cacheSet(ctx context.Context, p Profile) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	s.rdb.Set(ctx, cacheKey(p.ID), raw, cacheTTL)
}

func cacheKey(id string) string {
	return "profile:" + id
}

type scannable interface {
	Scan(dest ...any) error
}

func scanProfile(row scannable) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Name, &p.Handle, &p.AvatarURL, &p.Region, &p.Location,
		&p.Friends, &p.IncomingRequests, &p.OutgoingRequests, &p.Settings)
	if err != nil {
		return Profile{}, err
	}
	p.normalize()
	return p, nil
}

func collectProfiles(rows pgx.Rows) ([]Profile, error) {
	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if profiles == nil {
		profiles = []Profile{}
	}
	return profiles, nil
}

// GenerateHandle builds the phone-number style identity, e.g.
// "anna#483920".
func GenerateHandle(username string) string {
	base := strings.ReplaceAll(strings.ToLower(username), " ", "")
	return fmt.Sprintf("%s#%06d", base, 100000+rand.Intn(900000))
}

// AvatarURL returns a deterministic generated avatar for a seed.
func AvatarURL(seed string) string {
	return "https://api.dicebear.com/9.x/micah/svg?seed=" + seed
}
