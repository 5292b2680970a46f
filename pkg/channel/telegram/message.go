package telegram

import (
	"fmt"
	"strings"
	"time"

	"hooknotify/pkg/channel"
	"hooknotify/pkg/event"
)

const (
	iconNotification = "🔔"
	iconHook         = "⚡"
)

var markdownStripper = strings.NewReplacer("*", "", "`", "", "_", "")

// BuildText renders rec as one legacy-Markdown text block stamped with now.
// Lines for absent fields are left out.
func BuildText(rec event.Record, title string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🤖 *%s*\n\n", title)

	if kind := rec.HookKind(); kind != "" {
		fmt.Fprintf(&b, "%s *Hook Type:* %s\n", hookIcon(kind), kind)
	}
	if tool := rec.ToolLabel(); tool != "" {
		fmt.Fprintf(&b, "🔧 *Tool:* `%s`\n", tool)
	}
	if rec.Message != "" {
		fmt.Fprintf(&b, "\n📝 *Message:*\n%s\n", rec.Message)
	}
	if rec.Error != "" {
		fmt.Fprintf(&b, "\n❌ *Error:*\n`%s`\n", rec.Error)
	}

	fmt.Fprintf(&b, "\n🕐 *Time:* %s", channel.Timestamp(now))

	return b.String()
}

// StripMarkdown removes every *, ` and _ from text.
func StripMarkdown(text string) string {
	return markdownStripper.Replace(text)
}

func hookIcon(kind string) string {
	if kind == event.NotificationHook {
		return iconNotification
	}

	return iconHook
}
