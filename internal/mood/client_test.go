package mood

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func scoringServer(t *testing.T, calls *atomic.Int32, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			t.Errorf("bad request body: %v", err)
		}
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScore(t *testing.T) {
	srv := scoringServer(t, nil, http.StatusOK, scoreResponse{
		MoodPercentage: 93,
		MoodLabel:      "Done with Life",
		WittyComment:   "That stare has seen some meetings.",
		AccentColor:    "#FF0000",
	})

	client := NewClient(srv.URL, "key", nil)
	result := client.Score(context.Background(), "data:image/jpeg;base64,AAAA")
	if result.Percentage != 93 || result.Label != "Done with Life" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestScoreClampsPercentage(t *testing.T) {
	srv := scoringServer(t, nil, http.StatusOK, scoreResponse{
		MoodPercentage: 110,
		MoodLabel:      "Chaos Energy",
		AccentColor:    "#00FF00",
	})

	client := NewClient(srv.URL, "", nil)
	result := client.Score(context.Background(), "AAAA")
	if result.Percentage != 100 {
		t.Fatalf("expected clamp to 100, got %d", result.Percentage)
	}
}

func TestScoreFallbackOnServerError(t *testing.T) {
	srv := scoringServer(t, nil, http.StatusInternalServerError, nil)

	client := NewClient(srv.URL, "", nil)
	result := client.Score(context.Background(), "AAAA")
	if result != Fallback() {
		t.Fatalf("expected fallback, got %+v", result)
	}
}

func TestScoreFallbackOnUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", nil)
	result := client.Score(context.Background(), "AAAA")
	if result != Fallback() {
		t.Fatalf("expected fallback, got %+v", result)
	}
}

func TestScoreFallbackOnEmptyLabel(t *testing.T) {
	srv := scoringServer(t, nil, http.StatusOK, scoreResponse{MoodPercentage: 50})

	client := NewClient(srv.URL, "", nil)
	result := client.Score(context.Background(), "AAAA")
	if result != Fallback() {
		t.Fatalf("expected fallback, got %+v", result)
	}
}

func TestScoreCaches(t *testing.T) {
	var calls atomic.Int32
	srv := scoringServer(t, &calls, http.StatusOK, scoreResponse{
		MoodPercentage: 42,
		MoodLabel:      "Mild Drama",
		AccentColor:    "#ABCDEF",
	})

	redisServer := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	client := NewClient(srv.URL, "", rdb)
	first := client.Score(context.Background(), "AAAA")
	second := client.Score(context.Background(), "AAAA")
	if first != second {
		t.Fatalf("expected identical cached result")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}
}

func TestFallbackValue(t *testing.T) {
	fb := Fallback()
	if fb.Percentage != 69 || fb.Label != "Mysteriously Vague" || fb.ColorHex != "#A855F7" {
		t.Fatalf("unexpected fallback: %+v", fb)
	}
}
