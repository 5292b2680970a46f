// Package report prints the human-readable status lines of one invocation.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hooknotify/pkg/channel"
)

// Reporter writes status lines: notices and successes to out, failures to errOut.
type Reporter struct {
	out    io.Writer
	errOut io.Writer

	okStyle     lipgloss.Style
	warnStyle   lipgloss.Style
	noticeStyle lipgloss.Style
	failStyle   lipgloss.Style
}

// New styles each stream for its own terminal; non-TTY writers get plain text.
func New(out, errOut io.Writer) *Reporter {
	outRenderer := lipgloss.NewRenderer(out)
	errRenderer := lipgloss.NewRenderer(errOut)

	return &Reporter{
		out:         out,
		errOut:      errOut,
		okStyle:     outRenderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warnStyle:   outRenderer.NewStyle().Foreground(lipgloss.Color("3")),
		noticeStyle: errRenderer.NewStyle().Foreground(lipgloss.Color("3")),
		failStyle:   errRenderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// NoInput reports that stdin was empty.
func (r *Reporter) NoInput() {
	r.line(r.out, r.warnStyle, "⚠️  no input data, skipping notification", "")
}

// Skipped reports a channel without credentials.
func (r *Reporter) Skipped(channelName string, reason error) {
	detail := ""
	if reason != nil {
		detail = fmt.Sprintf("(%v)", reason)
	}
	r.line(r.out, r.warnStyle, fmt.Sprintf("⚠️  %s not configured, skipping", displayName(channelName)), detail)
}

// Failed reports a channel that could not attempt delivery at all.
func (r *Reporter) Failed(channelName string, err error) {
	r.line(r.errOut, r.failStyle, fmt.Sprintf("❌ %s notification failed:", displayName(channelName)), errText(err))
}

// Delivered reports the outcome of Notifier.Notify.
func (r *Reporter) Delivered(channelName string, delivery channel.Delivery, err error) {
	name := displayName(channelName)

	if delivery.PrimaryErr != nil {
		r.line(r.errOut, r.failStyle, fmt.Sprintf("❌ %s notification failed:", name), errText(delivery.PrimaryErr))
	}

	switch {
	case err == nil && delivery.Degraded:
		r.line(r.out, r.okStyle, fmt.Sprintf("✅ %s notification sent (plain-text mode)", name), "")
	case err == nil:
		r.line(r.out, r.okStyle, fmt.Sprintf("✅ %s notification sent", name), "")
	case delivery.Attempts > 1:
		r.line(r.errOut, r.failStyle, fmt.Sprintf("❌ %s plain-text retry failed:", name), errText(err))
	default:
		r.line(r.errOut, r.failStyle, fmt.Sprintf("❌ %s notification failed:", name), errText(err))
	}
}

// SettingsIgnored warns that some settings were replaced by their defaults.
func (r *Reporter) SettingsIgnored(err error) {
	detail := strings.ReplaceAll(errText(err), "\n", "; ")
	r.line(r.errOut, r.noticeStyle, "⚠️  ignoring invalid settings, using defaults:", detail)
}

// InputFailed reports an unusable payload. The caller exits non-zero.
func (r *Reporter) InputFailed(err error) {
	r.line(r.errOut, r.failStyle, "❌ failed to process input:", errText(err))
}

// Preview prints the payload that would have been sent.
func (r *Reporter) Preview(channelName string, payload any) error {
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}

	r.line(r.out, r.warnStyle, fmt.Sprintf("🔍 %s dry run, not sent:", displayName(channelName)), "")
	_, err = fmt.Fprintln(r.out, string(body))
	return err
}

// line styles only the label so error detail stays verbatim.
func (r *Reporter) line(w io.Writer, style lipgloss.Style, label string, detail string) {
	if detail == "" {
		_, _ = fmt.Fprintln(w, style.Render(label))
		return
	}

	_, _ = fmt.Fprintln(w, style.Render(label)+" "+detail)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}

	return err.Error()
}

// displayName capitalizes a channel id for console output.
func displayName(channelName string) string {
	if channelName == "" {
		return "Channel"
	}

	return strings.ToUpper(channelName[:1]) + channelName[1:]
}
