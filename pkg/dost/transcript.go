package dost

import (
	"encoding/json"
	"strings"
)

// TranscriptText derives display text from a response's query echo. The echo
// may be a plain string, a JSON-encoded object smuggled inside a string, or a
// structured object. Preference order:
//
//  1. object with a non-empty "text" field -> that text
//  2. object with a non-empty "latex" field -> trimmed value wrapped in
//     display-math delimiters
//  3. any other object -> serialized as-is
//  4. plain string -> used directly
//
// Malformed shapes fall through to raw serialization; this never fails. The
// second return is false when the echo is absent or empty.
func TranscriptText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		s := strings.TrimSpace(string(raw))
		return s, s != ""
	}

	switch v := v.(type) {
	case nil:
		return "", false
	case string:
		if v == "" {
			return "", false
		}
		// A transcription may itself be a JSON-encoded object.
		var obj map[string]any
		if err := json.Unmarshal([]byte(v), &obj); err == nil && obj != nil {
			return objectTranscript(obj), true
		}
		return v, true
	case map[string]any:
		return objectTranscript(v), true
	default:
		return string(raw), true
	}
}

func objectTranscript(obj map[string]any) string {
	if text, ok := obj["text"].(string); ok && text != "" {
		return text
	}
	if latex, ok := obj["latex"].(string); ok && latex != "" {
		return `\[` + strings.TrimSpace(latex) + `\]`
	}
	serialized, err := json.Marshal(obj)
	if err != nil {
		return ""
	}
	return string(serialized)
}
