// Package steam 通过 Steam Web API 获取用户拥有的游戏及游戏时长。
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/logging"
	"github.com/rushteam/gamerec/metrics"
)

// DefaultBaseURL 是 Steam Web API 地址。
const DefaultBaseURL = "https://api.steampowered.com"

const ownedGamesPath = "/IPlayerService/GetOwnedGames/v0001/"

// Config 是 Steam 客户端配置。
type Config struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout"`

	// RatePerSecond / Burst 限制对 Steam 的调用速率，<= 0 不限速
	RatePerSecond float64 `koanf:"rate_per_second" validate:"gte=0"`
	Burst         int     `koanf:"burst" validate:"gte=0"`

	// 连续失败 BreakerFailures 次后熔断 BreakerTimeout
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		Timeout:         10 * time.Second,
		RatePerSecond:   5,
		Burst:           10,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Client 实现 core.OwnershipFetcher。
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]core.Interaction]
}

// Option 自定义 Client。
type Option func(*Client)

// WithHTTPClient 替换底层 http.Client（测试用）。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(cfg Config, opts ...Option) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = def.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = def.BreakerTimeout
	}

	c := &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]core.Interaction](gobreaker.Settings{
		Name:    "steam",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// 调用方的问题（ID 无效、ctx 取消）不计入熔断
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, core.ErrNoOwnedGames) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues("steam").Set(0)

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ownedGamesResponse 对应 GetOwnedGames 的返回
type ownedGamesResponse struct {
	Response struct {
		GameCount int `json:"game_count"`
		Games     []struct {
			AppID           int64  `json:"appid"`
			Name            string `json:"name"`
			PlaytimeForever int64  `json:"playtime_forever"`
		} `json:"games"`
	} `json:"response"`
}

// OwnedGames 返回用户拥有的游戏。资料私密或库为空时返回空列表（不是错误）；
// Steam 不可达、返回异常或熔断时返回 core.ErrOwnershipUnavailable。
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]core.Interaction, error) {
	if steamID == "" {
		return nil, core.NewDomainError(core.ModuleOwnership, core.ErrorCodeInvalidInput, "ownership: steam id is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, core.ErrOwnershipUnavailable.Wrap(err)
	}

	games, err := c.breaker.Execute(func() ([]core.Interaction, error) {
		return c.fetch(ctx, steamID)
	})
	switch {
	case err == nil:
		metrics.UpstreamRequests.WithLabelValues("steam", "ok").Inc()
		return games, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.UpstreamRequests.WithLabelValues("steam", "rejected").Inc()
		return nil, core.ErrOwnershipUnavailable.Wrap(err)
	default:
		metrics.UpstreamRequests.WithLabelValues("steam", "error").Inc()
		return nil, err
	}
}

func (c *Client) fetch(ctx context.Context, steamID string) ([]core.Interaction, error) {
	q := url.Values{}
	q.Set("key", c.cfg.APIKey)
	q.Set("steamid", steamID)
	q.Set("format", "json")
	q.Set("include_appinfo", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+ownedGamesPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, core.ErrOwnershipUnavailable.Wrap(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, core.ErrOwnershipUnavailable.Wrap(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		// Steam 对格式错误的 steamid 返回 400
		return nil, core.ErrNoOwnedGames
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, core.ErrOwnershipUnavailable.Wrap(fmt.Errorf("steam status %d", resp.StatusCode))
	}

	var body ownedGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, core.ErrOwnershipUnavailable.Wrap(fmt.Errorf("decode owned games: %w", err))
	}

	out := make([]core.Interaction, 0, len(body.Response.Games))
	for _, g := range body.Response.Games {
		out = append(out, core.Interaction{AppID: g.AppID, PlaytimeMinutes: g.PlaytimeForever})
	}
	logging.Ctx(ctx).Debug().Int("games", len(out)).Msg("fetched owned games")
	return out, nil
}

var _ core.OwnershipFetcher = (*Client)(nil)
