package tui

import (
	"strings"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
)

// revealState tracks the progressive display of the pending response. The
// message is already fully computed; only its on-screen portion grows. The
// narrative types out first, then structured results appear together.
type revealState struct {
	msg          chat.Message
	narrative    []rune
	shown        int
	resultsShown bool
}

func newRevealState(msg chat.Message) *revealState {
	return &revealState{
		msg:       msg,
		narrative: []rune(strings.Join(msg.Script, "\n\n")),
	}
}

// advance reveals the next chunk, reporting whether more remains.
func (r *revealState) advance(runes int) bool {
	if r.shown < len(r.narrative) {
		r.shown += runes
		if r.shown > len(r.narrative) {
			r.shown = len(r.narrative)
		}
		return true
	}
	if len(r.msg.Results) > 0 && !r.resultsShown {
		r.resultsShown = true
		return true
	}
	return false
}

// visibleNarrative returns the typed-out portion of the narrative.
func (r *revealState) visibleNarrative() string {
	return string(r.narrative[:r.shown])
}
