package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/flatdyn"
	"github.com/wippyai/flatdyn/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	objectStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err       error
	codec     *flatdyn.Codec
	cfg       *config.Config
	logger    *zap.Logger
	result    string
	backtrace []string
	objects   []objectInfo
	visible   []int
	filter    textinput.Model
	editor    textarea.Model
	selected  int
	state     modelState
	filtering bool
}

type modelState int

const (
	stateSelectObject modelState = iota
	stateEditValue
	stateShowResult
)

func newInteractiveModel(cfg *config.Config, logger *zap.Logger) *interactiveModel {
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter objects"
	filter.Width = 40

	editor := textarea.New()
	editor.SetWidth(72)
	editor.SetHeight(12)
	editor.ShowLineNumbers = true

	return &interactiveModel{
		cfg:    cfg,
		logger: logger,
		filter: filter,
		editor: editor,
		state:  stateSelectObject,
	}
}

type loadedMsg struct {
	err     error
	codec   *flatdyn.Codec
	objects []objectInfo
}

type encodeResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchemas
}

func (m *interactiveModel) loadSchemas() tea.Msg {
	codec, err := openCodec(m.cfg, m.logger)
	if err != nil {
		return loadedMsg{err: err}
	}

	var objects []objectInfo
	reg := codec.Registry()
	for _, name := range reg.Names() {
		if entry, ok := reg.Entry(name); ok {
			objects = append(objects, describeObjects(entry)...)
		}
	}
	if len(objects) == 0 {
		return loadedMsg{err: fmt.Errorf("no objects in the loaded schemas")}
	}
	return loadedMsg{codec: codec, objects: objects}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.codec = msg.codec
		m.objects = msg.objects
		m.applyFilter()

	case encodeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.backtrace = flatdyn.Backtrace(msg.err)
		m.state = stateShowResult
	}

	var cmd tea.Cmd
	switch {
	case m.state == stateSelectObject && m.filtering:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	case m.state == stateEditValue:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

// handleKey processes navigation keys. Keys it does not claim are passed
// on to the focused input.
func (m *interactiveModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return tea.Quit, true
	}
	if m.codec == nil {
		return nil, false
	}

	switch m.state {
	case stateSelectObject:
		if m.filtering {
			switch key {
			case "enter":
				m.filtering = false
				m.filter.Blur()
				return nil, true
			case "esc":
				m.filtering = false
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return nil, true
			}
			return nil, false
		}
		switch key {
		case "q":
			return tea.Quit, true
		case "/":
			m.filtering = true
			return m.filter.Focus(), true
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
			}
		case "enter":
			if len(m.visible) == 0 {
				return nil, true
			}
			m.prepareEditor()
			m.state = stateEditValue
			return m.editor.Focus(), true
		}
		return nil, true

	case stateEditValue:
		switch key {
		case "ctrl+s":
			return m.encode, true
		case "esc":
			m.editor.Blur()
			m.state = stateSelectObject
			return nil, true
		}
		return nil, false

	case stateShowResult:
		switch key {
		case "q":
			return tea.Quit, true
		case "e":
			m.state = stateEditValue
			return m.editor.Focus(), true
		case "enter", "esc":
			m.state = stateSelectObject
			m.result = ""
			m.err = nil
			m.backtrace = nil
		}
		return nil, true
	}
	return nil, false
}

func (m *interactiveModel) applyFilter() {
	query := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, obj := range m.objects {
		if query == "" || strings.Contains(strings.ToLower(obj.schema+":"+obj.name), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) current() objectInfo {
	return m.objects[m.visible[m.selected]]
}

func (m *interactiveModel) prepareEditor() {
	obj := m.current()
	m.editor.Reset()
	m.editor.Placeholder = obj.template()
}

func (m *interactiveModel) encode() tea.Msg {
	obj := m.current()
	buf, err := m.codec.EncodeDocument(obj.schema, obj.name, []byte(m.editor.Value()))
	if err != nil {
		return encodeResultMsg{err: err}
	}
	out := m.cfg.Output
	out.Format = config.FormatHex
	return encodeResultMsg{result: fmt.Sprintf("%d bytes\n\n%s", len(buf), render(buf, out, true))}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}

	if m.codec == nil {
		return "Loading schemas..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("FlatBuffers Encoder"))
	b.WriteString(fmt.Sprintf(" %d schemas\n\n", m.codec.Registry().Len()))

	switch m.state {
	case stateSelectObject:
		b.WriteString("Select an object to encode:\n\n")
		if m.filtering || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		for i, idx := range m.visible {
			line := m.formatObject(m.objects[idx])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • / filter • enter edit • q quit"))

	case stateEditValue:
		obj := m.current()
		b.WriteString(fmt.Sprintf("Encoding %s as YAML or JSON\n\n", objectStyle.Render(obj.schema+":"+obj.name)))
		b.WriteString(m.editor.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("ctrl+s encode • esc back"))

	case stateShowResult:
		obj := m.current()
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", objectStyle.Render(obj.schema+":"+obj.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			if len(m.backtrace) > 0 {
				b.WriteString("\n")
				b.WriteString(typeStyle.Render("at " + strings.Join(m.backtrace, " <- ")))
			}
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("e edit again • enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatObject(o objectInfo) string {
	return fmt.Sprintf("%s:%s %s", o.schema, objectStyle.Render(o.name), typeStyle.Render(o.kind()))
}

func runInteractive(cfg *config.Config, logger *zap.Logger) error {
	p := tea.NewProgram(newInteractiveModel(cfg, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
