package event

import (
	"errors"
	"strings"
	"testing"
)

func TestReadEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t \r\n", "\uFEFF\n"} {
		_, _, err := Read(strings.NewReader(input))
		if !errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Read(%q) error = %v, want ErrEmptyInput", input, err)
		}
	}
}

func TestReadTrimsAndParses(t *testing.T) {
	rec, raw, err := Read(strings.NewReader("\n  {\"type\":\"notification\",\"message\":\"build failed\"}  \n"))
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(raw) != `{"type":"notification","message":"build failed"}` {
		t.Fatalf("raw = %q", raw)
	}
	if rec.Type != "notification" || rec.Message != "build failed" {
		t.Fatalf("record = %+v", rec)
	}
}

func TestReadInvalidJSON(t *testing.T) {
	tests := []string{
		`{"type":`,
		`not json`,
		`[1,2,3]`,
		`"just a string"`,
		`42`,
		`null`,
	}

	for _, input := range tests {
		if _, _, err := Read(strings.NewReader(input)); err == nil {
			t.Fatalf("Read(%q) expected error", input)
		} else if errors.Is(err, ErrEmptyInput) {
			t.Fatalf("Read(%q) reported empty input", input)
		}
	}
}

func TestParseRecognizedAndExtraFields(t *testing.T) {
	rec, err := Parse([]byte(`{
		"type": "PostToolUse",
		"message": "done",
		"tool": "Bash",
		"error": "exit 1",
		"hookType": "Notification",
		"toolName": "Edit",
		"result": {"lines": 3},
		"session_id": "abc",
		"cwd": "/tmp"
	}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if rec.Type != "PostToolUse" || rec.Message != "done" || rec.Tool != "Bash" || rec.Error != "exit 1" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.HookType != "Notification" || rec.ToolName != "Edit" {
		t.Fatalf("record hook fields = %+v", rec)
	}
	if string(rec.Result) != `{"lines": 3}` {
		t.Fatalf("result = %s", rec.Result)
	}
	if len(rec.Extra) != 2 {
		t.Fatalf("extra = %v, want 2 keys", rec.Extra)
	}
	if string(rec.Extra["session_id"]) != `"abc"` {
		t.Fatalf("extra.session_id = %s", rec.Extra["session_id"])
	}
}

func TestParseScalarValues(t *testing.T) {
	rec, err := Parse([]byte(`{"type": 7, "message": null, "tool": true, "error": {"code": 1}}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if rec.Type != "7" {
		t.Fatalf("type = %q, want %q", rec.Type, "7")
	}
	if rec.Message != "" {
		t.Fatalf("message = %q, want empty", rec.Message)
	}
	if rec.Tool != "true" {
		t.Fatalf("tool = %q, want %q", rec.Tool, "true")
	}
	if rec.Error != `{"code":1}` {
		t.Fatalf("error = %q", rec.Error)
	}
}

func TestParseEmptyObject(t *testing.T) {
	rec, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if rec.HookKind() != "" || rec.ToolLabel() != "" || rec.Extra != nil {
		t.Fatalf("record = %+v, want zero", rec)
	}
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		fallback string
		want     string
	}{
		{name: "primary wins", primary: "a", fallback: "b", want: "a"},
		{name: "fallback used", primary: "", fallback: "b", want: "b"},
		{name: "both empty", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.primary, tt.fallback); got != tt.want {
				t.Fatalf("Resolve(%q, %q) = %q, want %q", tt.primary, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestRecordLabels(t *testing.T) {
	rec := Record{Type: "notification", Tool: "ci"}
	if got := rec.HookKind(); got != "notification" {
		t.Fatalf("HookKind = %q", got)
	}
	if got := rec.ToolLabel(); got != "ci" {
		t.Fatalf("ToolLabel = %q", got)
	}
	if !rec.IsNotification() {
		t.Fatal("expected notification category")
	}

	rec.HookType = "Stop"
	rec.ToolName = "build"
	if got := rec.HookKind(); got != "Stop" {
		t.Fatalf("HookKind = %q, want HookType", got)
	}
	if got := rec.ToolLabel(); got != "build" {
		t.Fatalf("ToolLabel = %q, want ToolName", got)
	}
}
