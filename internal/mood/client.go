package mood

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	requestTimeout = 15 * time.Second
	cacheTTL       = 24 * time.Hour
)

// Client talks to the external mood-scoring service. Scoring the same
// image twice is served from the redis cache; rdb may be nil.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	rdb     *redis.Client
}

func NewClient(baseURL, apiKey string, rdb *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
		rdb:     rdb,
	}
}

type scoreRequest struct {
	Image string `json:"image"`
}

type scoreResponse struct {
	MoodPercentage int    `json:"mood_percentage"`
	MoodLabel      string `json:"mood_label"`
	WittyComment   string `json:"witty_comment"`
	AccentColor    string `json:"accent_color"`
}

// Score rates a base64-encoded selfie. Any failure (transport, status,
// decode) yields the fixed fallback rather than an error: a post must
// always get a mood.
func (c *Client) Score(ctx context.Context, imageB64 string) Result {
	// Strip a data-URL prefix if present.
	if _, data, ok := strings.Cut(imageB64, ","); ok {
		imageB64 = data
	}

	key := cacheKey(imageB64)
	if cached, ok := c.cacheGet(ctx, key); ok {
		return cached
	}

	result, ok := c.fetch(ctx, imageB64)
	if !ok {
		return Fallback()
	}

	c.cacheSet(ctx, key, result)
	return result
}

func (c *Client) fetch(ctx context.Context, imageB64 string) (Result, bool) {
	payload, err := json.Marshal(scoreRequest{Image: imageB64})
	if err != nil {
		return Result{}, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return Result{}, false
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, false
	}

	var body scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, false
	}
	if body.MoodLabel == "" {
		return Result{}, false
	}

	return Result{
		Percentage:  clamp(body.MoodPercentage),
		Label:       body.MoodLabel,
		Description: body.WittyComment,
		ColorHex:    body.AccentColor,
	}, true
}

func (c *Client) cacheGet(ctx context.Context, key string) (Result, bool) {
	if c.rdb == nil {
		return Result{}, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return Result{}, false
	}
	return r, true
}

func (c *Client) cacheSet(ctx context.Context, key string, r Result) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, cacheTTL)
}

func cacheKey(imageB64 string) string {
	sum := sha256.Sum256([]byte(imageB64))
	return "mood:" + hex.EncodeToString(sum[:])
}

func clamp(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
