package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"majestic-dominion/internal/config"
	"majestic-dominion/internal/constants"
	"majestic-dominion/internal/discord"
	"majestic-dominion/internal/league"
	"majestic-dominion/internal/service"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const webhookUsername = "Majestic Dominion"

type RateLimitInfo struct {
	Bucket     string        `json:"bucket"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetAfter time.Duration `json:"reset_after"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// exhausted reports whether the bucket is empty and has not reset yet.
func (r RateLimitInfo) exhausted(now time.Time) (time.Duration, bool) {
	if r.UpdatedAt.IsZero() || r.Remaining > 0 {
		return 0, false
	}
	wait := r.UpdatedAt.Add(r.ResetAfter).Sub(now)
	return wait, wait > 0
}

// WebhookNotifier posts settled matches to Discord-style webhooks.
type WebhookNotifier struct {
	urls        []string
	client      *fasthttp.Client
	limiter     *rate.Limiter
	rateLimitMu sync.RWMutex
	rateLimits  map[string]RateLimitInfo
	inflight    sync.WaitGroup
	logger      zerolog.Logger
}

func NewWebhookNotifier(cfg *config.Config, logger zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		urls: cfg.WebhookURLs,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.WebhookTimeout,
			WriteTimeout:        constants.WebhookTimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter:    rate.NewLimiter(rate.Limit(constants.WebhookRequestsPerSecond), constants.WebhookBurst),
		rateLimits: make(map[string]RateLimitInfo, len(cfg.WebhookURLs)),
		logger:     logger,
	}
}

func (n *WebhookNotifier) GetRateLimitInfo(url string) (RateLimitInfo, bool) {
	n.rateLimitMu.RLock()
	defer n.rateLimitMu.RUnlock()
	info, ok := n.rateLimits[url]
	return info, ok
}

func (n *WebhookNotifier) updateRateLimit(url string, resp *fasthttp.Response) {
	n.rateLimitMu.Lock()
	defer n.rateLimitMu.Unlock()

	info := n.rateLimits[url]
	if bucket := string(resp.Header.Peek("X-RateLimit-Bucket")); bucket != "" {
		info.Bucket = bucket
	}
	if limit := string(resp.Header.Peek("X-RateLimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			info.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-RateLimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			info.Remaining = val
		}
	}
	if reset := string(resp.Header.Peek("X-RateLimit-Reset-After")); reset != "" {
		if val, err := strconv.ParseFloat(reset, 64); err == nil {
			info.ResetAfter = time.Duration(val * float64(time.Second))
		}
	}
	info.UpdatedAt = time.Now()
	n.rateLimits[url] = info
}

// MatchSettled fans the result out in the background. Delivery failures are
// logged and never reach the caller.
func (n *WebhookNotifier) MatchSettled(ctx context.Context, res *league.MatchResult) {
	if len(n.urls) == 0 || res == nil {
		return
	}
	params := &discordgo.WebhookParams{
		Username: webhookUsername,
		Embeds:   []*discordgo.MessageEmbed{discord.MatchEmbed(res)},
	}
	matchID := res.Match.ID

	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.WebhookTimeout*constants.WebhookMaxAttempts)
		defer cancel()
		if err := n.Broadcast(sendCtx, params); err != nil {
			n.logger.Warn().Err(err).Str("match_id", matchID).Msg("failed to deliver match webhook")
		}
	}()
}

// Wait blocks until every background delivery has finished.
func (n *WebhookNotifier) Wait() {
	n.inflight.Wait()
}

// Broadcast posts params to every configured webhook concurrently.
func (n *WebhookNotifier) Broadcast(ctx context.Context, params *discordgo.WebhookParams) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, url := range n.urls {
		g.Go(func() error {
			if err := n.post(ctx, url, body); err != nil {
				return fmt.Errorf("webhook %s: %w", redact(url), err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (n *WebhookNotifier) post(ctx context.Context, url string, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	for attempt := 1; ; attempt++ {
		if info, ok := n.GetRateLimitInfo(url); ok {
			if wait, exhausted := info.exhausted(time.Now()); exhausted {
				if err := sleep(ctx, wait); err != nil {
					return err
				}
			}
		}
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}

		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(constants.WebhookTimeout)
		}
		resp.Reset()
		if err := n.client.DoDeadline(req, resp, deadline); err != nil {
			return fmt.Errorf("failed to send webhook: %w", err)
		}
		n.updateRateLimit(url, resp)

		status := resp.StatusCode()
		switch {
		case status >= 200 && status < 300:
			return nil
		case status == fasthttp.StatusTooManyRequests && attempt < constants.WebhookMaxAttempts:
			retry := retryAfter(resp)
			n.logger.Debug().Int("attempt", attempt).Dur("retry_after", retry).Msg("webhook rate limited")
			if err := sleep(ctx, retry); err != nil {
				return err
			}
		default:
			return fmt.Errorf("webhook error: %d", status)
		}
	}
}

func retryAfter(resp *fasthttp.Response) time.Duration {
	if raw := string(resp.Header.Peek("Retry-After")); raw != "" {
		if val, err := strconv.ParseFloat(raw, 64); err == nil {
			return time.Duration(val * float64(time.Second))
		}
	}
	return time.Second
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// redact drops the webhook token from log lines.
func redact(url string) string {
	if len(url) > 40 {
		return url[:40] + "..."
	}
	return url
}

// Provide builds the notifier and drains pending deliveries on shutdown.
func Provide(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) *WebhookNotifier {
	n := NewWebhookNotifier(cfg, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			n.Wait()
			return nil
		},
	})
	return n
}

var Module = fx.Provide(
	fx.Annotate(Provide, fx.As(new(service.MatchNotifier))),
)
