package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hooknotify/pkg/channel"
	"hooknotify/pkg/config"
	"hooknotify/pkg/event"
)

const channelName = "feishu"

const maxResponseBytes = 64 << 10

// APIError is a rejected webhook call: a non-2xx status or a non-zero code.
type APIError struct {
	StatusCode int
	Code       *int
	Msg        string
}

func (e *APIError) Error() string {
	if e.StatusCode < http.StatusOK || e.StatusCode >= http.StatusMultipleChoices {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Msg)
	}
	if e.Code == nil {
		return fmt.Sprintf("feishu api error: missing code: %s", e.Msg)
	}

	return fmt.Sprintf("feishu api error: code %d: %s", *e.Code, e.Msg)
}

type apiResponse struct {
	Code *int   `json:"code"`
	Msg  string `json:"msg"`
}

// Notifier posts interactive cards to one Feishu group webhook.
type Notifier struct {
	webhookURL string
	secret     string
	title      string
	timeout    time.Duration
	loc        *time.Location
	now        func() time.Time
	client     *http.Client
	log        *slog.Logger
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		if client != nil {
			n.client = client
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(n *Notifier) {
		if now != nil {
			n.now = now
		}
	}
}

// NewNotifier validates the webhook settings. A missing webhook URL yields
// channel.ErrNotConfigured.
func NewNotifier(cfg config.FeishuConfig, notify config.NotifyConfig, log *slog.Logger, opts ...Option) (*Notifier, error) {
	webhookURL := strings.TrimSpace(cfg.WebhookURL)
	if webhookURL == "" {
		return nil, fmt.Errorf("FEISHU_WEBHOOK_URL is not set: %w", channel.ErrNotConfigured)
	}
	if err := config.Validate("feishu", cfg); err != nil {
		return nil, err
	}

	if log == nil {
		log = slog.Default()
	}

	n := &Notifier{
		webhookURL: webhookURL,
		secret:     strings.TrimSpace(cfg.Secret),
		title:      notify.TitleOrDefault(),
		timeout:    notify.RequestTimeout(),
		loc:        notify.Location(),
		now:        time.Now,
		client:     http.DefaultClient,
		log:        log.With("component", "channel.feishu"),
	}
	for _, opt := range opts {
		opt(n)
	}

	return n, nil
}

// Name returns the channel identifier used in logs and status lines.
func (n *Notifier) Name() string {
	return channelName
}

// Notify renders rec and posts it once. There is no retry.
func (n *Notifier) Notify(ctx context.Context, rec event.Record) (channel.Delivery, error) {
	now := n.now().In(n.loc)
	msg := BuildMessage(rec, n.title, now)
	if n.secret != "" {
		ts := now.Unix()
		msg.Timestamp = strconv.FormatInt(ts, 10)
		msg.Sign = Sign(ts, n.secret)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return channel.Delivery{}, fmt.Errorf("encode card: %w", err)
	}

	return channel.Delivery{Attempts: 1}, n.post(ctx, body)
}

func (n *Notifier) post(ctx context.Context, body []byte) error {
	reqCtx, cancel := channel.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	n.log.Debug("Posting card", "host", webhookHost(n.webhookURL), "bytes", len(body))

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read webhook response: %w", err)
	}

	n.log.Debug("Webhook responded", "status", resp.StatusCode, "body", string(payload))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{StatusCode: resp.StatusCode, Msg: http.StatusText(resp.StatusCode)}
	}

	var result apiResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return fmt.Errorf("decode webhook response: %w", err)
	}
	if result.Code == nil || *result.Code != 0 {
		return &APIError{StatusCode: resp.StatusCode, Code: result.Code, Msg: result.Msg}
	}

	return nil
}

// webhookHost keeps the token path out of logs.
func webhookHost(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	return parsed.Host
}
