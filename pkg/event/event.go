// Package event models the hook payload read from standard input.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ErrEmptyInput reports that stdin carried nothing but whitespace.
var ErrEmptyInput = errors.New("empty input")

// ErrNotObject reports a JSON document that is not an object.
var ErrNotObject = errors.New("event payload must be a JSON object")

// Recognized payload keys.
const (
	KeyType     = "type"
	KeyMessage  = "message"
	KeyTool     = "tool"
	KeyError    = "error"
	KeyHookType = "hookType"
	KeyToolName = "toolName"
	KeyResult   = "result"
)

// NotificationType is the category value that marks a plain notification.
const NotificationType = "notification"

// NotificationHook is the hook type value that marks a plain notification.
const NotificationHook = "Notification"

// Record is one parsed hook event. Every field is optional; keys the record
// does not recognize are kept verbatim in Extra.
type Record struct {
	Type     string
	Message  string
	Tool     string
	Error    string
	HookType string
	ToolName string
	Result   json.RawMessage
	Extra    map[string]json.RawMessage
}

// Read consumes r to EOF and parses the trimmed content as a Record.
//
// Whitespace-only input yields ErrEmptyInput.
func Read(r io.Reader) (Record, []byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Record{}, nil, fmt.Errorf("read input: %w", err)
	}

	trimmed := bytes.TrimFunc(data, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	if len(trimmed) == 0 {
		return Record{}, nil, ErrEmptyInput
	}

	rec, err := Parse(trimmed)
	if err != nil {
		return Record{}, trimmed, err
	}

	return rec, trimmed, nil
}

// Parse decodes one JSON object into a Record.
func Parse(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse event: %w", err)
	}

	return rec, nil
}

// UnmarshalJSON accepts any JSON object. Recognized keys take any scalar value.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return ErrNotObject
	}

	next := Record{}
	for key, value := range raw {
		switch key {
		case KeyType:
			next.Type = scalarText(value)
		case KeyMessage:
			next.Message = scalarText(value)
		case KeyTool:
			next.Tool = scalarText(value)
		case KeyError:
			next.Error = scalarText(value)
		case KeyHookType:
			next.HookType = scalarText(value)
		case KeyToolName:
			next.ToolName = scalarText(value)
		case KeyResult:
			next.Result = value
		default:
			if next.Extra == nil {
				next.Extra = make(map[string]json.RawMessage)
			}
			next.Extra[key] = value
		}
	}

	*r = next
	return nil
}

// HookKind is the hook type label: HookType, falling back to Type.
func (r Record) HookKind() string {
	return Resolve(r.HookType, r.Type)
}

// ToolLabel is the tool label: ToolName, falling back to Tool.
func (r Record) ToolLabel() string {
	return Resolve(r.ToolName, r.Tool)
}

// IsNotification reports whether the category is the notification category.
func (r Record) IsNotification() bool {
	return r.Type == NotificationType
}

// Resolve returns primary unless it is empty, then fallback.
func Resolve(primary, fallback string) string {
	if primary != "" {
		return primary
	}

	return fallback
}

// scalarText renders a JSON value as display text: strings unquoted, null
// empty, anything else in compact JSON form.
func scalarText(value json.RawMessage) string {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return strings.TrimSpace(string(trimmed))
	}

	return compact.String()
}
