package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "initializing…"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("DOST") + "\n")
	b.WriteString(m.timeline.View() + "\n")
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(m.input.View() + "\n")
	b.WriteString(helpStyle.Render("enter send · ctrl+r voice · /image stage · ctrl+p preset · ctrl+g pause · ctrl+c quit"))
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.rec.Recording():
		return recordingStyle.Render("● recording — ctrl+r to stop")
	case m.notice != "":
		return noticeStyle.Render(m.notice)
	case m.reveal != nil:
		return statusStyle.Render("revealing response…")
	case m.ctrl.Loading():
		return m.spin.View() + statusStyle.Render(" thinking — ctrl+g to pause")
	case m.staged != nil:
		return statusStyle.Render("image staged: " + m.staged.Name + " (caption in the input box)")
	default:
		return statusStyle.Render("ready")
	}
}

// syncTimeline re-renders the conversation into the viewport and follows the
// bottom.
func (m *Model) syncTimeline() {
	if !m.ready {
		return
	}
	m.timeline.SetContent(m.renderConversation())
	m.timeline.GotoBottom()
}

func (m *Model) renderConversation() string {
	msgs := m.ctrl.Log().Messages()
	if len(msgs) == 0 && m.reveal == nil {
		return m.renderWelcome()
	}

	var b strings.Builder
	for _, msg := range msgs {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	if m.reveal != nil {
		b.WriteString(m.renderPending())
	}
	return b.String()
}

func (m *Model) renderWelcome() string {
	var b strings.Builder
	b.WriteString("\nWhat would you like to work on today?\n")
	if len(m.presets) > 0 {
		b.WriteString("\nSuggestions (ctrl+p to cycle into the input box):\n")
		for _, p := range m.presets {
			b.WriteString("  • " + p + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderMessage(msg chat.Message) string {
	if msg.Role == chat.RoleUser {
		var b strings.Builder
		b.WriteString(userLabelStyle.Render("you") + "  " + msg.Text + "\n")
		if msg.Preview != "" {
			b.WriteString(previewStyle.Render("[image: "+msg.Preview+"]") + "\n")
		}
		return b.String()
	}

	return dostLabelStyle.Render("dost") + "\n" + m.renderMarkdown(systemMarkdown(msg))
}

// renderPending shows the partially revealed response. The typing portion is
// rendered plain; markdown styling applies once the message lands in the log.
func (m *Model) renderPending() string {
	var b strings.Builder
	b.WriteString(dostLabelStyle.Render("dost") + "\n")
	b.WriteString(m.reveal.visibleNarrative())
	if m.reveal.resultsShown {
		b.WriteString("\n" + m.renderMarkdown(resultsMarkdown(m.reveal.msg.Results)))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderMarkdown(md string) string {
	if m.renderer == nil {
		return md
	}
	out, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// systemMarkdown assembles the markdown source for a system message:
// narrative first, then structured results.
func systemMarkdown(msg chat.Message) string {
	var parts []string
	if len(msg.Script) > 0 {
		parts = append(parts, strings.Join(msg.Script, "\n\n"))
	}
	if msg.Text != "" {
		parts = append(parts, msg.Text)
	}
	if len(msg.Results) > 0 {
		parts = append(parts, resultsMarkdown(msg.Results))
	}
	return strings.Join(parts, "\n\n")
}

func resultsMarkdown(records []dost.ResultRecord) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(recordLine(r) + "\n")
	}
	return b.String()
}

// recordLine renders one structured result. Records are arbitrary mappings;
// a handful of conventional title fields are tried before falling back to
// the first field.
func recordLine(r dost.ResultRecord) string {
	title := recordTitle(r)
	if link := r.LinkValue(); link != "" {
		return fmt.Sprintf("- [%s](%s)", title, link)
	}
	return "- " + title
}

func recordTitle(r dost.ResultRecord) string {
	for _, key := range []string{"title", "name", "heading", "topic"} {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
	}
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v, ok := r[k].(string); ok && v != "" {
			return v
		}
	}
	return "result"
}

var _ tea.Model = Model{}
