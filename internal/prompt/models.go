package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	markStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	Submit key.Binding
	Yes    key.Binding
	No     key.Binding
	Abort  key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle")),
	All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Yes:    key.NewBinding(key.WithKeys("y", "Y")),
	No:     key.NewBinding(key.WithKeys("n", "N")),
	Abort:  key.NewBinding(key.WithKeys("ctrl+c", "esc")),
}

func header(question string) string {
	return markStyle.Render("?") + " " + questionStyle.Render(question)
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s %s", h.Key, h.Desc))
	}
	return hintStyle.Render(strings.Join(parts, " · "))
}

// confirm

type confirmModel struct {
	question string
	answer   bool
	done     bool
	aborted  bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question, answer: true}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Abort):
		m.aborted = true
	case key.Matches(keyMsg, keys.Yes):
		m.answer = true
	case key.Matches(keyMsg, keys.No):
		m.answer = false
	case key.Matches(keyMsg, keys.Submit):
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) finished() bool { return m.done }

func (m confirmModel) View() string {
	if m.done {
		if m.aborted {
			return ""
		}
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		return header(m.question) + " " + answerStyle.Render(answer) + "\n"
	}
	return header(m.question) + " " + hintStyle.Render("(Y/n)") + "\n"
}

// multi-select

type multiSelectModel struct {
	question string
	choices  []Choice
	cursor   int
	done     bool
	aborted  bool
}

func newMultiSelectModel(question string, choices []Choice) multiSelectModel {
	copied := make([]Choice, len(choices))
	copy(copied, choices)
	return multiSelectModel{question: question, choices: copied}
}

func (m multiSelectModel) Init() tea.Cmd { return nil }

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Abort):
		m.aborted, m.done = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Submit):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, keys.Toggle):
		if len(m.choices) > 0 {
			m.choices[m.cursor].Selected = !m.choices[m.cursor].Selected
		}
	case key.Matches(keyMsg, keys.All):
		all := true
		for _, c := range m.choices {
			all = all && c.Selected
		}
		for i := range m.choices {
			m.choices[i].Selected = !all
		}
	}
	return m, nil
}

func (m multiSelectModel) finished() bool { return m.done }

func (m multiSelectModel) selected() []string {
	var out []string
	for _, c := range m.choices {
		if c.Selected {
			out = append(out, c.Value)
		}
	}
	return out
}

func (m multiSelectModel) View() string {
	if m.done {
		if m.aborted {
			return ""
		}
		return header(m.question) + " " + answerStyle.Render(strings.Join(m.selected(), ", ")) + "\n"
	}
	var b strings.Builder
	b.WriteString(header(m.question) + "\n")
	for i, c := range m.choices {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("❯ ")
		}
		box := "◯"
		if c.Selected {
			box = selectedStyle.Render("◉")
		}
		label := c.Label
		if label == "" {
			label = c.Value
		}
		b.WriteString(pointer + box + " " + label + "\n")
	}
	b.WriteString(helpLine(keys.Toggle, keys.All, keys.Submit) + "\n")
	return b.String()
}

// select

type optionItem string

func (o optionItem) Title() string       { return string(o) }
func (o optionItem) Description() string { return "" }
func (o optionItem) FilterValue() string { return string(o) }

const selectWidth = 60

type selectModel struct {
	question string
	list     list.Model
	done     bool
	aborted  bool
}

func newSelectModel(question string, options []string) selectModel {
	items := make([]list.Item, len(options))
	for i, option := range options {
		items[i] = optionItem(option)
	}
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	l := list.New(items, delegate, selectWidth, 0)
	l.Title = question
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	// No WindowSizeMsg arrives when rendering inline, so size the list to
	// hold every option on one page.
	l.SetHeight(lipgloss.Height(l.Styles.TitleBar.Render(l.Styles.Title.Render(question))) + len(options))
	return selectModel{question: question, list: l}
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Abort):
			m.aborted, m.done = true, true
			return m, tea.Quit
		case key.Matches(keyMsg, keys.Submit):
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) finished() bool { return m.done }

func (m selectModel) value() string {
	item, ok := m.list.SelectedItem().(optionItem)
	if !ok {
		return ""
	}
	return string(item)
}

func (m selectModel) View() string {
	if m.done {
		if m.aborted {
			return ""
		}
		return header(m.question) + " " + answerStyle.Render(m.value()) + "\n"
	}
	return m.list.View() + "\n" + helpLine(keys.Up, keys.Down, keys.Submit) + "\n"
}

// input

type inputModel struct {
	question string
	input    textinput.Model
	done     bool
	aborted  bool
}

func newInputModel(question string) inputModel {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Focus()
	return inputModel{question: question, input: ti}
}

func (m inputModel) Init() tea.Cmd { return textinput.Blink }

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Abort):
			m.aborted, m.done = true, true
			return m, tea.Quit
		case key.Matches(keyMsg, keys.Submit):
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) finished() bool { return m.done }

func (m inputModel) value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m inputModel) View() string {
	if m.done {
		if m.aborted {
			return ""
		}
		return header(m.question) + " " + answerStyle.Render(m.value()) + "\n"
	}
	return header(m.question) + "\n" + cursorStyle.Render("> ") + m.input.View() + "\n"
}
