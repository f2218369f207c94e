// Package chat implements the conversation core: the append-only message log,
// input assembly, and the single-request lifecycle controller.
package chat

import (
	"github.com/google/uuid"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// Role identifies who produced a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// Attachment is a staged binary input (image or finished voice recording).
type Attachment struct {
	// Name is the display name of the attachment (e.g. the staged file's
	// basename); it doubles as the locally-rendered preview for user
	// messages carrying an image.
	Name string
	Data []byte
}

// Message is one entry in the conversation. Messages are immutable once
// appended, except for the single controlled text amendment applied when a
// non-text submission's transcription arrives.
type Message struct {
	ID   string
	Role Role

	// Kind classifies system messages; empty for user messages.
	Kind dost.Kind

	// Text is the display string. It may contain inline markup and
	// math-delimited segments.
	Text string

	// Preview references the locally-rendered image preview; present only
	// for user messages originating from image input.
	Preview string

	// Script holds the narrative segments of general-query and mixed-combo
	// answers, revealed as typed prose by the shell.
	Script []string

	// Results holds structured result records (dost-combo and mixed-combo
	// system messages only).
	Results []dost.ResultRecord

	// NeedsReveal is consumed by the presentation shell only.
	NeedsReveal bool
}

// NewID generates a unique message identifier.
func NewID() string {
	return uuid.NewString()
}
