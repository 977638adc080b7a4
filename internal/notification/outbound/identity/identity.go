// Package identity is the client of the external identity provider. User
// info is cached in redis by identity id.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrUnexpectedStatus = errors.New("identity: unexpected status")

type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	MaxRetries uint64
	Backoff    time.Duration
	CacheTTL   time.Duration
}

type Client struct {
	cfg   Config
	http  *http.Client
	cache redis.Cmdable
	ins   instrument.Instrumentation
}

// New builds the client. A nil cache disables caching.
func New(cfg Config, cache redis.Cmdable, ins instrument.Instrumentation) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 100 * time.Millisecond
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: cache,
		ins:   ins,
	}
}

func (c *Client) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("notification.outbound.identity").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// GetUserInfo returns nil when the identity is unknown.
func (c *Client) GetUserInfo(ctx context.Context, identityID string) (_ *entity.IdentityInfo, err error) {
	ctx, span := c.startSpan(ctx, "GetUserInfo")
	defer func() { endSpan(span, err) }()

	users, err := c.GetUsersMap(ctx, []string{identityID})
	if err != nil {
		return nil, err
	}

	info, ok := users[identityID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// GetUsersMap resolves identities in bulk. Unknown ids are absent from
// the result.
func (c *Client) GetUsersMap(ctx context.Context, identityIDs []string) (_ map[string]entity.IdentityInfo, err error) {
	ctx, span := c.startSpan(ctx, "GetUsersMap")
	defer func() { endSpan(span, err) }()

	identityIDs = lo.Uniq(lo.Compact(identityIDs))
	out := make(map[string]entity.IdentityInfo, len(identityIDs))
	if len(identityIDs) == 0 {
		return out, nil
	}

	missing := c.fromCache(ctx, identityIDs, out)
	if len(missing) == 0 {
		return out, nil
	}

	var resp struct {
		Users []entity.IdentityInfo `json:"users"`
	}
	body := map[string][]string{"identity_ids": missing}
	if _, err := c.do(ctx, http.MethodPost, "/v1/users/batch", body, &resp); err != nil {
		slog.ErrorContext(ctx, "failed to identity get users", "identity_ids", missing, "error", err)
		return nil, err
	}

	for _, u := range resp.Users {
		out[u.IdentityID] = u
	}
	c.toCache(ctx, resp.Users)

	return out, nil
}

// GetUserInfoByEmail returns nil when no account uses email.
func (c *Client) GetUserInfoByEmail(ctx context.Context, email string) (_ *entity.IdentityInfo, err error) {
	ctx, span := c.startSpan(ctx, "GetUserInfoByEmail")
	defer func() { endSpan(span, err) }()

	var info entity.IdentityInfo
	found, err := c.do(ctx, http.MethodGet, "/v1/users?email="+url.QueryEscape(email), nil, &info)
	if err != nil {
		slog.ErrorContext(ctx, "failed to identity get user by email", "email", email, "error", err)
		return nil, err
	}
	if !found || info.IdentityID == "" {
		return nil, nil
	}

	c.toCache(ctx, []entity.IdentityInfo{info})
	return &info, nil
}

func (c *Client) cacheKey(identityID string) string {
	return "notifyhub:identity:" + identityID
}

func (c *Client) fromCache(ctx context.Context, identityIDs []string, out map[string]entity.IdentityInfo) []string {
	if c.cache == nil {
		return identityIDs
	}

	keys := lo.Map(identityIDs, func(id string, _ int) string { return c.cacheKey(id) })
	vals, err := c.cache.MGet(ctx, keys...).Result()
	if err != nil {
		slog.WarnContext(ctx, "identity cache read failed", "error", err)
		return identityIDs
	}

	var missing []string
	for i, v := range vals {
		raw, ok := v.(string)
		var info entity.IdentityInfo
		if !ok || json.Unmarshal([]byte(raw), &info) != nil {
			missing = append(missing, identityIDs[i])
			continue
		}
		out[identityIDs[i]] = info
	}
	return missing
}

func (c *Client) toCache(ctx context.Context, users []entity.IdentityInfo) {
	if c.cache == nil || len(users) == 0 {
		return
	}

	_, err := c.cache.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, u := range users {
			raw, err := json.Marshal(u)
			if err != nil {
				return err
			}
			p.Set(ctx, c.cacheKey(u.IdentityID), raw, c.cfg.CacheTTL)
		}
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "identity cache write failed", "error", err)
	}
}

// do calls the provider, retrying transport errors and 5xx. found is
// false on 404.
func (c *Client) do(ctx context.Context, method, path string, body, result any) (found bool, err error) {
	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return false, fmt.Errorf("marshal request body: %w", err)
		}
	}

	b := retry.WithMaxRetries(c.cfg.MaxRetries, retry.NewExponential(c.cfg.Backoff))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.cfg.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		}
		if cID := instrument.GetCorrelationID(ctx); cID != "" {
			req.Header.Set("X-Correlation-ID", cID)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			found = false
			return nil
		case resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("%w: %d %s %s", ErrUnexpectedStatus, resp.StatusCode, method, path))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return fmt.Errorf("%w: %d %s %s", ErrUnexpectedStatus, resp.StatusCode, method, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		found = true
		return nil
	})

	return found, err
}
