package chat

import (
	"errors"
	"strings"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// ErrEmptyInput rejects a plain-text submission whose trimmed text is empty
// with no staged image. It is a validation no-op, not a failure: no request
// is issued and no state changes.
var ErrEmptyInput = errors.New("empty input")

// Input is the staged user input at submission time. Exactly one modality is
// active: plain text, image with caption, or voice with an optional staged
// image.
type Input struct {
	// Text is the typed query, or the caption when an image is staged.
	Text string

	// Image is the staged image, if any.
	Image *Attachment

	// Audio is the finished voice recording, if any.
	Audio *Attachment
}

// BuildPayload constructs the outbound payload for the query service.
// Construction is pure; the caller dispatches.
//
// The context field is intentionally asymmetric between paths: the image
// submission path always carries it (even empty), while the voice path only
// carries it when the caption is non-empty. The backend relies on this.
func BuildPayload(in Input) (*dost.Payload, error) {
	p := &dost.Payload{}

	switch {
	case in.Audio != nil:
		p.AddFile(dost.FieldFile, dost.AudioFilename, in.Audio.Data)
		if in.Image != nil {
			p.AddFile(dost.FieldImage, dost.ImageFilename, in.Image.Data)
			if caption := strings.TrimSpace(in.Text); caption != "" {
				p.SetValue(dost.FieldContext, caption)
			}
		}

	case in.Image != nil:
		p.AddFile(dost.FieldImage, dost.ImageFilename, in.Image.Data)
		p.SetValue(dost.FieldContext, in.Text)

	default:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return nil, ErrEmptyInput
		}
		p.SetValue(dost.FieldQuery, text)
	}

	return p, nil
}

// Placeholder texts echoed while the backend extracts the real input.
const (
	imagePlaceholder = "Processing your image…"
	voicePlaceholder = "Processing your voice…"
)

// echoText builds the optimistic echo shown for the user's own message at
// submission time, before any server response.
func echoText(in Input) string {
	switch {
	case in.Audio != nil:
		return withContextPrefix(contextPrefix(in), voicePlaceholder)
	case in.Image != nil:
		return withContextPrefix(contextPrefix(in), imagePlaceholder)
	default:
		return strings.TrimSpace(in.Text)
	}
}

// contextPrefix returns the caption to re-prepend as a bold "Context:" line,
// or "" when the submission carries no image or no caption.
func contextPrefix(in Input) string {
	if in.Image == nil {
		return ""
	}
	return strings.TrimSpace(in.Text)
}

func withContextPrefix(prefix, text string) string {
	if prefix == "" {
		return text
	}
	return "**Context:** " + prefix + "\n" + text
}
