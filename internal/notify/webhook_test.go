package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"majestic-dominion/internal/config"
	"majestic-dominion/internal/domain"
	"majestic-dominion/internal/league"
	"majestic-dominion/internal/notify"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	mu       sync.Mutex
	payloads []discordgo.WebhookParams
}

func (c *capture) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var p discordgo.WebhookParams
		if !assert.NoError(t, json.Unmarshal(body, &p)) {
			return
		}
		c.mu.Lock()
		c.payloads = append(c.payloads, p)
		c.mu.Unlock()

		w.Header().Set("X-RateLimit-Bucket", "abc")
		w.Header().Set("X-RateLimit-Limit", "5")
		w.Header().Set("X-RateLimit-Remaining", "4")
		w.Header().Set("X-RateLimit-Reset-After", "2.5")
		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *capture) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func result() *league.MatchResult {
	return &league.MatchResult{
		Match:   &domain.Match{ID: "feedbeef", Team1: "Valhalla", Team2: "Manschaft", Score: domain.Score{Team1: 2, Team2: 1}},
		Outcome: domain.OutcomeTeam1,
		Winner:  "Valhalla",
		Loser:   "Manschaft",
		Team1:   domain.Squad{Name: "Valhalla", Tag: "VH"},
		Team2:   domain.Squad{Name: "Manschaft", Tag: "V"},
		Breakdown: league.GloryBreakdown{
			Base:  3,
			Total: 3,
		},
	}
}

func TestMatchSettled_FansOut(t *testing.T) {
	var a, b capture
	srvA := httptest.NewServer(a.handler(t))
	defer srvA.Close()
	srvB := httptest.NewServer(b.handler(t))
	defer srvB.Close()

	n := notify.NewWebhookNotifier(&config.Config{WebhookURLs: []string{srvA.URL, srvB.URL}}, zerolog.Nop())
	n.MatchSettled(context.Background(), result())
	n.Wait()

	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
	p := a.payloads[0]
	assert.Equal(t, "Majestic Dominion", p.Username)
	require.Len(t, p.Embeds, 1)
	assert.Equal(t, "📜 Battle Chronicles Updated", p.Embeds[0].Title)

	info, ok := n.GetRateLimitInfo(srvA.URL)
	require.True(t, ok)
	assert.Equal(t, "abc", info.Bucket)
	assert.Equal(t, 5, info.Limit)
	assert.Equal(t, 4, info.Remaining)
	assert.Equal(t, "2.5s", info.ResetAfter.String())
}

func TestMatchSettled_CancelledCallerStillDelivers(t *testing.T) {
	var a capture
	srv := httptest.NewServer(a.handler(t))
	defer srv.Close()

	n := notify.NewWebhookNotifier(&config.Config{WebhookURLs: []string{srv.URL}}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	n.MatchSettled(ctx, result())
	cancel()
	n.Wait()

	assert.Equal(t, 1, a.count())
}

func TestMatchSettled_NoURLs(t *testing.T) {
	n := notify.NewWebhookNotifier(&config.Config{}, zerolog.Nop())
	n.MatchSettled(context.Background(), result())
	n.Wait()

	_, ok := n.GetRateLimitInfo("anything")
	assert.False(t, ok)
}

func TestBroadcast_RetriesRateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0.05")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(&config.Config{WebhookURLs: []string{srv.URL}}, zerolog.Nop())
	err := n.Broadcast(context.Background(), &discordgo.WebhookParams{Content: "hello"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestBroadcast_GivesUp(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0.01")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	n := notify.NewWebhookNotifier(&config.Config{WebhookURLs: []string{srv.URL}}, zerolog.Nop())
	err := n.Broadcast(context.Background(), &discordgo.WebhookParams{Content: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.EqualValues(t, 3, calls.Load())
}

func TestBroadcast_ServerError(t *testing.T) {
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer badSrv.Close()

	n := notify.NewWebhookNotifier(&config.Config{WebhookURLs: []string{badSrv.URL}}, zerolog.Nop())
	err := n.Broadcast(context.Background(), &discordgo.WebhookParams{Content: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
