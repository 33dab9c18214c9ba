package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/claimsdash/internal/claimform"
	"github.com/theirongolddev/claimsdash/internal/tui/components"
	"github.com/theirongolddev/claimsdash/internal/tui/theme"
)

const maxFormWidth = 72

// formScreen pairs the claim draft with one input widget per field. The
// draft is the source of truth; widgets are refreshed from it after focus
// changes, which may reformat values.
type formScreen struct {
	draft  *claimform.Form
	inputs []textinput.Model // indexed like claimform.Fields; TextArea slots unused
	desc   textarea.Model
	width  int
}

func newFormScreen(now func() time.Time, width int) *formScreen {
	fs := &formScreen{
		draft:  claimform.New(now),
		inputs: make([]textinput.Model, len(claimform.Fields)),
	}
	for i, f := range claimform.Fields {
		if f.Kind == claimform.TextArea {
			ta := textarea.New()
			ta.Placeholder = f.Placeholder
			ta.ShowLineNumbers = false
			ta.SetHeight(4)
			ta.CharLimit = 2000
			fs.desc = ta
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder
		ti.CharLimit = 64
		fs.inputs[i] = ti
	}
	fs.setWidth(width)
	return fs
}

// currencyChars drops everything but digits and amount punctuation.
func currencyChars(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			return r
		}
		return -1
	}, s)
}

func (fs *formScreen) setWidth(w int) {
	fs.width = min(max(w, 40), maxFormWidth)
	inner := components.CardInnerWidth(fs.width) - 2
	for i := range fs.inputs {
		fs.inputs[i].Width = inner
	}
	fs.desc.SetWidth(inner)
}

// focusCurrent focuses the widget of the draft's focused field.
func (fs *formScreen) focusCurrent() tea.Cmd {
	cur := fs.draft.FocusIndex()
	fs.desc.Blur()
	for i := range fs.inputs {
		fs.inputs[i].Blur()
	}
	if claimform.Fields[cur].Kind == claimform.TextArea {
		return fs.desc.Focus()
	}
	return fs.inputs[cur].Focus()
}

// move shifts focus and returns the policy number to look up, if any.
func (fs *formScreen) move(forward bool) (string, tea.Cmd) {
	var lookup string
	if forward {
		lookup = fs.draft.Next()
	} else {
		lookup = fs.draft.Prev()
	}
	fs.sync()
	return lookup, fs.focusCurrent()
}

// sync copies draft values into widgets that differ.
func (fs *formScreen) sync() {
	for i, f := range claimform.Fields {
		v := fs.draft.Value(f.Name)
		if f.Kind == claimform.TextArea {
			if fs.desc.Value() != v {
				fs.desc.SetValue(v)
			}
			continue
		}
		if fs.inputs[i].Value() != v {
			fs.inputs[i].SetValue(v)
		}
	}
}

// update routes msg to the focused widget and records the edit.
func (fs *formScreen) update(msg tea.Msg) tea.Cmd {
	cur := fs.draft.FocusIndex()
	f := claimform.Fields[cur]

	var cmd tea.Cmd
	if f.Kind == claimform.TextArea {
		fs.desc, cmd = fs.desc.Update(msg)
		fs.draft.Set(f.Name, fs.desc.Value())
		fs.sync()
		return cmd
	}
	fs.inputs[cur], cmd = fs.inputs[cur].Update(msg)
	v := fs.inputs[cur].Value()
	if f.Kind == claimform.Currency {
		if clean := currencyChars(v); clean != v {
			fs.inputs[cur].SetValue(clean)
			v = clean
		}
	}
	fs.draft.Set(f.Name, v)
	fs.sync()
	return cmd
}

func (fs *formScreen) view(spin string) string {
	t := theme.Active
	inner := components.CardInnerWidth(fs.width)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	focusLabel := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	helperStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	errStyle := lipgloss.NewStyle().Foreground(t.Red)
	badgeStyle := lipgloss.NewStyle().Foreground(t.Green).Bold(true)
	fieldBox := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		PaddingLeft(1).
		Width(inner)
	focusBox := fieldBox.BorderForeground(t.BorderAccent)

	errs := fs.draft.VisibleErrors()
	cur := fs.draft.FocusIndex()

	var b strings.Builder
	for i, f := range claimform.Fields {
		ls := labelStyle
		box := fieldBox
		if i == cur {
			ls = focusLabel
			box = focusBox
		}

		label := ls.Render(f.Label + " *")
		if f.Name == claimform.Holder && fs.draft.AutoFilled() {
			label += " " + badgeStyle.Render(claimform.AutoFilledBadge)
		}
		if f.Name == claimform.PolicyNumber && fs.draft.LookupPending() != "" {
			label += " " + helperStyle.Render(spin+" verifying policy")
		}

		var input string
		if f.Kind == claimform.TextArea {
			input = fs.desc.View()
		} else {
			input = fs.inputs[i].View()
		}

		lines := []string{label, input}
		if msg, ok := errs[f.Name]; ok {
			lines = append(lines, errStyle.Render(msg))
		} else if h := fs.draft.Helper(f.Name); h != "" {
			lines = append(lines, helperStyle.Render(h))
		}
		b.WriteString(box.Render(strings.Join(lines, "\n")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case fs.draft.Submitting():
		b.WriteString(lipgloss.NewStyle().Foreground(t.Accent).Render(spin + " Submitting claim..."))
	case fs.draft.SubmitError() != "":
		b.WriteString(errStyle.Render("Failed to create claim: " + fs.draft.SubmitError()))
	case fs.draft.CanSubmit():
		b.WriteString(lipgloss.NewStyle().Foreground(t.Green).Render("Ready to submit · ctrl+s"))
	default:
		b.WriteString(helperStyle.Render("Complete all required fields to submit"))
	}

	return components.ContentCard("Create New Claim", b.String(), fs.width)
}
