package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"golang.org/x/time/rate"

	"github.com/IkonicR/ClanOS-sub001/internal/config"
	"github.com/IkonicR/ClanOS-sub001/internal/constants"
	"github.com/IkonicR/ClanOS-sub001/internal/metrics"
)

// CoCClient talks to the Clash of Clans REST API.
type CoCClient struct {
	token   string
	baseURL string
	client  *fasthttp.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  zerolog.Logger

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	// requests per second allowed by the local limiter
	Limit float64 `json:"limit"`
	Burst int     `json:"burst"`

	// count of 429 responses seen since start
	Throttled int `json:"throttled"`

	// zero unless the upstream asked us to back off
	PausedUntil time.Time `json:"paused_until"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// APIError is a non-200 response. Reason carries the upstream's short code, e.g. "notFound".
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("API error: %d %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("API error: %d", e.StatusCode)
}

func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func NewCoCClient(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *CoCClient {
	return &CoCClient{
		token:   cfg.CoCAPIToken,
		baseURL: cfg.CoCBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,

			// tags are sent as %23XXXX and must not be decoded
			DisablePathNormalizing: true,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.CoCRateLimit), constants.CoCRateBurst),
		metrics: m,
		logger:  logger,
		rateLimit: RateLimitInfo{
			Limit:     cfg.CoCRateLimit,
			Burst:     constants.CoCRateBurst,
			UpdatedAt: time.Now(),
		},
	}
}

func (c *CoCClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *CoCClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if resp.StatusCode() == fasthttp.StatusTooManyRequests {
		c.rateLimit.Throttled++
		wait := time.Second
		if retry := string(resp.Header.Peek("Retry-After")); retry != "" {
			if val, err := strconv.Atoi(retry); err == nil && val > 0 {
				wait = time.Duration(val) * time.Second
			}
		}
		c.rateLimit.PausedUntil = time.Now().Add(wait)
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *CoCClient) pausedFor() time.Duration {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return time.Until(c.rateLimit.PausedUntil)
}

func (c *CoCClient) GetClan(ctx context.Context, clanTag string) (*ClanResponse, error) {
	u := fmt.Sprintf("%s/clans/%s", c.baseURL, url.PathEscape(clanTag))
	return doRequest[ClanResponse](ctx, c, "clan", u)
}

func (c *CoCClient) GetCurrentWar(ctx context.Context, clanTag string) (*WarResponse, error) {
	u := fmt.Sprintf("%s/clans/%s/currentwar", c.baseURL, url.PathEscape(clanTag))
	return doRequest[WarResponse](ctx, c, "currentwar", u)
}

func (c *CoCClient) GetLeagueGroup(ctx context.Context, clanTag string) (*LeagueGroupResponse, error) {
	u := fmt.Sprintf("%s/clans/%s/currentwar/leaguegroup", c.baseURL, url.PathEscape(clanTag))
	return doRequest[LeagueGroupResponse](ctx, c, "leaguegroup", u)
}

func (c *CoCClient) GetLeagueWar(ctx context.Context, warTag string) (*WarResponse, error) {
	u := fmt.Sprintf("%s/clanwarleagues/wars/%s", c.baseURL, url.PathEscape(warTag))
	war, err := doRequest[WarResponse](ctx, c, "leaguewar", u)
	if err != nil {
		return nil, err
	}
	war.League = true
	war.WarTag = warTag
	return war, nil
}

func doRequest[T any](ctx context.Context, client *CoCClient, endpoint, url string) (*T, error) {
	if d := client.pausedFor(); d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", "Bearer "+client.token)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := client.client.DoDeadline(req, resp, deadline); err != nil {
		client.observe(endpoint, "error")
		return nil, err
	}

	client.updateRateLimit(resp)
	client.observe(endpoint, strconv.Itoa(resp.StatusCode()))

	if resp.StatusCode() != fasthttp.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		var body struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		}
		if json.Unmarshal(resp.Body(), &body) == nil {
			apiErr.Reason = body.Reason
			apiErr.Message = body.Message
		}
		client.logger.Debug().
			Str("endpoint", endpoint).
			Int("status", apiErr.StatusCode).
			Str("reason", apiErr.Reason).
			Msg("upstream request failed")
		return nil, apiErr
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *CoCClient) observe(endpoint, status string) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, status).Inc()
}

var Module = fx.Provide(NewCoCClient)
