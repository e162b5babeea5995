package dialog

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go.klb.dev/textassist/internal/action"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	bodyStyle    = lipgloss.NewStyle().PaddingLeft(2)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	pickerHeight = 16
)

type languageItem action.Language

func (i languageItem) Title() string       { return i.Name }
func (i languageItem) Description() string { return i.Code }
func (i languageItem) FilterValue() string { return i.Name }

type pickerModel struct {
	list      list.Model
	chosen    *action.Language
	cancelled bool
}

func newPickerModel(languages []action.Language, preselected action.Language) pickerModel {
	items := make([]list.Item, len(languages))
	sel := 0
	for i, l := range languages {
		items[i] = languageItem(l)
		if l.Code == preselected.Code {
			sel = i
		}
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 40, pickerHeight)
	l.Title = "Translate to"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.Select(sel)
	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(languageItem); ok {
				l := action.Language(it)
				m.chosen = &l
			}
			return m, tea.Quit
		case "esc", "q", "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View() + "\n" + dimStyle.Render("enter select • esc cancel • / filter")
}

// Terminal is a language picker for the command line. It reads keys from
// the controlling terminal and draws on Out.
type Terminal struct {
	Out io.Writer
}

func (t Terminal) Pick(ctx context.Context, languages []action.Language, preselected action.Language) (action.Language, error) {
	out := t.Out
	if out == nil {
		out = os.Stderr
	}
	p := tea.NewProgram(newPickerModel(languages, preselected),
		tea.WithContext(ctx),
		tea.WithInputTTY(),
		tea.WithOutput(out),
	)
	final, err := p.Run()
	if err != nil {
		return action.Language{}, fmt.Errorf("language picker: %w", err)
	}
	m := final.(pickerModel)
	if m.cancelled || m.chosen == nil {
		return action.Language{}, action.ErrCancelled
	}
	return *m.chosen, nil
}

// RenderOutcome formats an action outcome for terminal output.
func RenderOutcome(o action.Outcome) string {
	var b strings.Builder
	switch {
	case o.Cancelled:
		b.WriteString(dimStyle.Render("cancelled"))
	case o.Err != nil:
		b.WriteString(errorStyle.Render(o.Title))
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(o.Err.Error()))
	default:
		b.WriteString(titleStyle.Render(o.Title))
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(o.Text))
	}
	b.WriteString("\n")
	return b.String()
}
