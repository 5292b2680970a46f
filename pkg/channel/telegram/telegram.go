package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hooknotify/pkg/channel"
	"hooknotify/pkg/config"
	"hooknotify/pkg/event"

	"github.com/mymmrac/telego"
	ta "github.com/mymmrac/telego/telegoapi"
	tu "github.com/mymmrac/telego/telegoutil"
)

const channelName = "telegram"

// parseMarker is matched against failure text to detect a rejected Markdown
// body. Telegram reports these as "Bad Request: can't parse entities: ...".
const parseMarker = "parse"

const messagePreviewLimit = 240

// Notifier sends hook events to one Telegram chat through the Bot API.
type Notifier struct {
	bot     *telego.Bot
	chatID  telego.ChatID
	chat    string
	title   string
	timeout time.Duration
	loc     *time.Location
	now     func() time.Time
	client  *http.Client
	log     *slog.Logger
}

// Option customizes a Notifier.
type Option func(*Notifier)

// WithHTTPClient routes Bot API calls through client instead of telego's
// default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.client = client
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

// NewNotifier validates bot settings and constructs the Bot API client. A
// missing token or chat id yields channel.ErrNotConfigured.
func NewNotifier(cfg config.TelegramConfig, notify config.NotifyConfig, log *slog.Logger, opts ...Option) (*Notifier, error) {
	token := strings.TrimSpace(cfg.Token)
	chatID := strings.TrimSpace(cfg.ChatID)
	if token == "" || chatID == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID is not set: %w", channel.ErrNotConfigured)
	}
	if err := config.Validate("telegram", cfg); err != nil {
		return nil, err
	}

	if log == nil {
		log = slog.Default()
	}

	n := &Notifier{
		chatID:  ParseChatID(chatID),
		chat:    chatID,
		title:   notify.TitleOrDefault(),
		timeout: notify.RequestTimeout(),
		loc:     notify.Location(),
		now:     time.Now,
		log:     log.With("component", "channel.telegram"),
	}
	for _, opt := range opts {
		opt(n)
	}

	botOpts := []telego.BotOption{telego.WithDiscardLogger()}
	if server := strings.TrimRight(strings.TrimSpace(cfg.APIServer), "/"); server != "" {
		botOpts = append(botOpts, telego.WithAPIServer(server))
	}
	if n.client != nil {
		botOpts = append(botOpts, telego.WithHTTPClient(n.client))
	}

	bot, err := telego.NewBot(token, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialize telegram bot: %w", err)
	}
	n.bot = bot

	return n, nil
}

// Name returns the channel identifier used in logs and status lines.
func (n *Notifier) Name() string {
	return channelName
}

// Notify sends rec as Markdown. When Telegram rejects the markup, the same
// text is sent once more with the markup stripped and no parse mode.
func (n *Notifier) Notify(ctx context.Context, rec event.Record) (channel.Delivery, error) {
	text := BuildText(rec, n.title, n.now().In(n.loc))
	params := MessageParams(n.chatID, text)

	delivery := channel.Delivery{Attempts: 1}
	err := n.send(ctx, params)
	if err == nil {
		return delivery, nil
	}
	if !IsParseError(err) {
		return delivery, err
	}

	n.log.Info("Markdown rejected, retrying as plain text", "error", err)

	delivery.Attempts++
	delivery.PrimaryErr = err
	plain := *params
	plain.Text = StripMarkdown(text)
	plain.ParseMode = ""
	if err := n.send(ctx, &plain); err != nil {
		return delivery, err
	}

	delivery.Degraded = true
	return delivery, nil
}

func (n *Notifier) send(ctx context.Context, params *telego.SendMessageParams) error {
	reqCtx, cancel := channel.WithTimeout(ctx, n.timeout)
	defer cancel()

	n.log.Debug("Sending message", "chat_id", n.chat, "parse_mode", params.ParseMode, "content", previewText(params.Text))

	msg, err := n.bot.SendMessage(reqCtx, params)
	if err != nil {
		return err
	}

	n.log.Debug("Message sent", "message_id", msg.MessageID)
	return nil
}

// MessageParams is the Markdown sendMessage request for text, with link
// previews disabled.
func MessageParams(chatID telego.ChatID, text string) *telego.SendMessageParams {
	return &telego.SendMessageParams{
		ChatID:             chatID,
		Text:               text,
		ParseMode:          telego.ModeMarkdown,
		LinkPreviewOptions: disabledPreview(),
	}
}

// ParseChatID accepts a numeric chat id or an @channel username.
func ParseChatID(raw string) telego.ChatID {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return tu.ID(id)
	}

	return tu.Username(raw)
}

// IsParseError reports whether err looks like a Markdown parsing rejection.
//
// The API description is checked when available, otherwise the error text.
func IsParseError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *ta.Error
	if errors.As(err, &apiErr) {
		return strings.Contains(strings.ToLower(apiErr.Description), parseMarker)
	}

	return strings.Contains(err.Error(), parseMarker)
}

func disabledPreview() *telego.LinkPreviewOptions {
	return &telego.LinkPreviewOptions{IsDisabled: true}
}

// previewText returns a bounded log-safe preview of message text.
func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= messagePreviewLimit {
		return trimmed
	}

	return trimmed[:messagePreviewLimit] + "..."
}
