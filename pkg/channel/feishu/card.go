package feishu

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"hooknotify/pkg/channel"
	"hooknotify/pkg/event"
)

const (
	msgTypeInteractive = "interactive"

	tagPlainText = "plain_text"
	tagMarkdown  = "lark_md"
	tagDiv       = "div"

	templateNotification = "orange"
	templateDefault      = "blue"

	titleIcon = "🤖"
)

// Message is the webhook request body for an interactive card.
type Message struct {
	MsgType   string `json:"msg_type"`
	Timestamp string `json:"timestamp,omitempty"`
	Sign      string `json:"sign,omitempty"`
	Card      Card   `json:"card"`
}

// Card is a titled card with a list of body elements.
type Card struct {
	Header   Header    `json:"header"`
	Elements []Element `json:"elements"`
}

// Header carries the card title and its color template.
type Header struct {
	Title    Text   `json:"title"`
	Template string `json:"template"`
}

// Text is a tagged text node.
type Text struct {
	Content string `json:"content"`
	Tag     string `json:"tag"`
}

// Element is one card section: either a text block or a field grid.
type Element struct {
	Tag    string  `json:"tag"`
	Text   *Text   `json:"text,omitempty"`
	Fields []Field `json:"fields,omitempty"`
}

// Field is one cell of a two-column field grid.
type Field struct {
	IsShort bool `json:"is_short"`
	Text    Text `json:"text"`
}

// BuildMessage renders rec as an interactive card stamped with now.
func BuildMessage(rec event.Record, title string, now time.Time) Message {
	template := templateDefault
	if rec.IsNotification() {
		template = templateNotification
	}

	card := Card{
		Header: Header{
			Title:    Text{Content: titleIcon + " " + title, Tag: tagPlainText},
			Template: template,
		},
		Elements: make([]Element, 0, 2),
	}

	if rec.Message != "" {
		card.Elements = append(card.Elements, Element{
			Tag:  tagDiv,
			Text: &Text{Content: rec.Message, Tag: tagMarkdown},
		})
	}

	card.Elements = append(card.Elements, Element{Tag: tagDiv, Fields: fields(rec, now)})

	return Message{MsgType: msgTypeInteractive, Card: card}
}

// fields lists type, tool, error and time, skipping absent values.
func fields(rec event.Record, now time.Time) []Field {
	out := make([]Field, 0, 4)

	if rec.Type != "" {
		out = append(out, markdownField(true, "Type", rec.Type))
	}
	if rec.Tool != "" {
		out = append(out, markdownField(true, "Tool", rec.Tool))
	}
	if rec.Error != "" {
		out = append(out, markdownField(false, "Error", "`"+rec.Error+"`"))
	}
	out = append(out, markdownField(true, "Time", channel.Timestamp(now)))

	return out
}

func markdownField(short bool, label, value string) Field {
	return Field{
		IsShort: short,
		Text:    Text{Content: fmt.Sprintf("**%s:** %s", label, value), Tag: tagMarkdown},
	}
}

// Sign computes the webhook signature for a unix timestamp: the HMAC-SHA256 of
// an empty message keyed by "timestamp\nsecret", base64 encoded.
func Sign(timestamp int64, secret string) string {
	mac := hmac.New(sha256.New, fmt.Appendf(nil, "%d\n%s", timestamp, secret))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
