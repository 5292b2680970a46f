package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"hooknotify/pkg/channel"
)

func newBufferedReporter() (*Reporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut), &out, &errOut
}

func TestDeliveredSuccess(t *testing.T) {
	r, out, errOut := newBufferedReporter()

	r.Delivered("feishu", channel.Delivery{Attempts: 1}, nil)

	if got := strings.TrimSpace(out.String()); got != "✅ Feishu notification sent" {
		t.Fatalf("stdout = %q", got)
	}
	if errOut.Len() != 0 {
		t.Fatalf("stderr = %q, want empty", errOut.String())
	}
}

func TestDeliveredDegraded(t *testing.T) {
	r, out, errOut := newBufferedReporter()

	r.Delivered("telegram", channel.Delivery{Attempts: 2, Degraded: true, PrimaryErr: errors.New("can't parse entities")}, nil)

	if got := strings.TrimSpace(out.String()); got != "✅ Telegram notification sent (plain-text mode)" {
		t.Fatalf("stdout = %q", got)
	}
	if got := strings.TrimSpace(errOut.String()); got != "❌ Telegram notification failed: can't parse entities" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestDeliveredFailures(t *testing.T) {
	tests := []struct {
		name     string
		delivery channel.Delivery
		err      error
		want     []string
	}{
		{
			name:     "single attempt",
			delivery: channel.Delivery{Attempts: 1},
			err:      errors.New("HTTP 500: Internal Server Error"),
			want:     []string{"❌ Telegram notification failed: HTTP 500: Internal Server Error"},
		},
		{
			name:     "retry failed",
			delivery: channel.Delivery{Attempts: 2, PrimaryErr: errors.New("can't parse entities")},
			err:      errors.New("chat not found"),
			want: []string{
				"❌ Telegram notification failed: can't parse entities",
				"❌ Telegram plain-text retry failed: chat not found",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, out, errOut := newBufferedReporter()

			r.Delivered("telegram", tt.delivery, tt.err)

			if out.Len() != 0 {
				t.Fatalf("stdout = %q, want empty", out.String())
			}
			lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("stderr lines = %q, want %q", lines, tt.want)
			}
			for i := range lines {
				if lines[i] != tt.want[i] {
					t.Fatalf("stderr line %d = %q, want %q", i, lines[i], tt.want[i])
				}
			}
		})
	}
}

func TestNoticeLines(t *testing.T) {
	r, out, errOut := newBufferedReporter()

	r.NoInput()
	r.Skipped("feishu", errors.New("FEISHU_WEBHOOK_URL is not set"))
	r.InputFailed(errors.New("parse event: unexpected end of JSON input"))
	r.Failed("telegram", errors.New("initialize telegram bot: invalid token"))

	stdout := out.String()
	if !strings.Contains(stdout, "no input data, skipping notification") {
		t.Fatalf("stdout missing no-input notice: %q", stdout)
	}
	if !strings.Contains(stdout, "Feishu not configured, skipping (FEISHU_WEBHOOK_URL is not set)") {
		t.Fatalf("stdout missing skip notice: %q", stdout)
	}

	stderr := errOut.String()
	if !strings.Contains(stderr, "failed to process input: parse event: unexpected end of JSON input") {
		t.Fatalf("stderr missing input failure: %q", stderr)
	}
	if !strings.Contains(stderr, "Telegram notification failed: initialize telegram bot: invalid token") {
		t.Fatalf("stderr missing setup failure: %q", stderr)
	}
}

func TestSettingsIgnoredIsOneLine(t *testing.T) {
	r, out, errOut := newBufferedReporter()

	r.SettingsIgnored(errors.Join(errors.New("invalid logging config"), errors.New("parse HOOKNOTIFY_TIMEOUT_SECONDS")))

	want := "⚠️  ignoring invalid settings, using defaults: invalid logging config; parse HOOKNOTIFY_TIMEOUT_SECONDS"
	if got := strings.TrimSpace(errOut.String()); got != want {
		t.Fatalf("stderr = %q, want %q", got, want)
	}
	if out.Len() != 0 {
		t.Fatalf("stdout = %q, want empty", out.String())
	}
}

func TestPreviewPrintsIndentedJSON(t *testing.T) {
	r, out, _ := newBufferedReporter()

	if err := r.Preview("telegram", map[string]string{"text": "hi"}); err != nil {
		t.Fatalf("Preview error: %v", err)
	}

	if !strings.Contains(out.String(), "{\n  \"text\": \"hi\"\n}") {
		t.Fatalf("stdout = %q", out.String())
	}
}
