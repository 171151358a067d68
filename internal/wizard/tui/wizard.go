package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/splinter98/lgnetcast/internal/entries"
	"github.com/splinter98/lgnetcast/internal/netcast"
	"github.com/splinter98/lgnetcast/internal/setupflow"
)

// phase is the wizard screen currently shown.
type phase int

const (
	phaseEntry phase = iota
	phaseWorking
	phasePick
	phaseAuthorize
	phaseDone
	phaseAborted
)

// Messages for async flow steps
type stepMsg struct {
	state   setupflow.State
	outcome setupflow.Outcome
}

type savedMsg struct {
	err error
}

// wizardKeyMap defines key bindings shared across wizard screens
type wizardKeyMap struct {
	Submit key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k wizardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Up, k.Down, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k wizardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Up, k.Down, k.Quit},
	}
}

// deviceItem wraps one discovered device for use with bubbles/list
type deviceItem struct {
	id   string
	name string
}

// FilterValue implements list.Item
func (d deviceItem) FilterValue() string { return d.id + " " + d.name }

// Title returns the display name for list rendering
func (d deviceItem) Title() string { return d.name }

// Description returns the secondary list line
func (d deviceItem) Description() string { return "Device ID: " + d.id }

// Model is the wizard's bubbletea model. It renders the setup flow's
// outcomes and feeds user submissions back into the flow.
type Model struct {
	flow  *setupflow.Flow
	store *entries.Store

	state   setupflow.State
	outcome setupflow.Outcome
	phase   phase

	hostInput  textinput.Model
	pinInput   textinput.Model
	deviceList list.Model
	spin       spinner.Model

	keys wizardKeyMap
	help help.Model

	created setupflow.DeviceConfig
	saveErr error
	width   int
}

// New creates a wizard model driving the given flow and persisting created
// entries into the given store.
func New(flow *setupflow.Flow, store *entries.Store) Model {
	hostInput := textinput.New()
	hostInput.Placeholder = "192.168.1.10 (leave empty to scan)"
	hostInput.CharLimit = 253
	hostInput.Width = 40
	hostInput.Focus()

	pinInput := textinput.New()
	pinInput.Placeholder = "PIN shown on the TV"
	pinInput.CharLimit = netcast.MaxAccessTokenLength
	pinInput.Width = 12

	deviceList := list.New(nil, list.NewDefaultDelegate(), 60, 14)
	deviceList.Title = "Discovered TVs"
	deviceList.SetShowStatusBar(false)
	deviceList.SetFilteringEnabled(false)

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	keys := wizardKeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}

	state, outcome := flow.Start()

	return Model{
		flow:       flow,
		store:      store,
		state:      state,
		outcome:    outcome,
		phase:      phaseEntry,
		hostInput:  hostInput,
		pinInput:   pinInput,
		deviceList: deviceList,
		spin:       spin,
		keys:       keys,
		help:       help.New(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.deviceList.SetWidth(min(msg.Width-4, 70))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m.updateKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case stepMsg:
		return m.applyStep(msg)

	case savedMsg:
		m.saveErr = msg.err
		m.phase = phaseDone
		return m, nil
	}

	return m.updateInputs(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {

	case phaseEntry:
		if key.Matches(msg, m.keys.Submit) {
			host := strings.TrimSpace(m.hostInput.Value())
			return m.working(func() tea.Msg {
				state, outcome := m.flow.SubmitEntry(context.Background(), m.state, host)
				return stepMsg{state: state, outcome: outcome}
			})
		}

	case phasePick:
		if key.Matches(msg, m.keys.Submit) {
			item, ok := m.deviceList.SelectedItem().(deviceItem)
			if !ok {
				return m, nil
			}
			return m.working(func() tea.Msg {
				state, outcome := m.flow.SubmitPick(context.Background(), m.state, item.id)
				return stepMsg{state: state, outcome: outcome}
			})
		}

	case phaseAuthorize:
		if key.Matches(msg, m.keys.Submit) {
			pin := strings.TrimSpace(m.pinInput.Value())
			return m.working(func() tea.Msg {
				state, outcome := m.flow.SubmitAuthorize(context.Background(), m.state, pin)
				return stepMsg{state: state, outcome: outcome}
			})
		}

	case phaseDone, phaseAborted:
		return m, tea.Quit
	}

	return m.updateInputs(msg)
}

// working switches to the spinner screen while a flow step runs. Steps may
// block for the length of a discovery sweep or a session attempt.
func (m Model) working(step func() tea.Msg) (tea.Model, tea.Cmd) {
	m.phase = phaseWorking
	return m, tea.Batch(m.spin.Tick, step)
}

// applyStep renders the outcome of one flow step into wizard state.
func (m Model) applyStep(msg stepMsg) (tea.Model, tea.Cmd) {
	m.state = msg.state
	m.outcome = msg.outcome

	switch msg.outcome.Kind {

	case setupflow.ResultForm:
		switch msg.outcome.Step {
		case setupflow.StepEntry:
			m.phase = phaseEntry
			m.hostInput.Focus()
			return m, textinput.Blink
		case setupflow.StepPickDevice:
			m.phase = phasePick
			m.deviceList.SetItems(deviceItems(msg.outcome.Devices))
			return m, nil
		case setupflow.StepAuthorize:
			m.phase = phaseAuthorize
			m.pinInput.SetValue("")
			m.pinInput.Focus()
			return m, textinput.Blink
		}

	case setupflow.ResultCreate:
		m.created = msg.outcome.Data
		return m, func() tea.Msg {
			return savedMsg{err: m.store.Add(entries.Entry{
				Title:       msg.outcome.Title,
				Host:        msg.outcome.Data.Host,
				AccessToken: msg.outcome.Data.AccessToken,
				Name:        msg.outcome.Data.Name,
				ID:          msg.outcome.Data.ID,
			})}
		}

	case setupflow.ResultAbort:
		m.phase = phaseAborted
		return m, nil
	}

	return m, nil
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.phase {
	case phaseEntry:
		m.hostInput, cmd = m.hostInput.Update(msg)
	case phaseAuthorize:
		m.pinInput, cmd = m.pinInput.Update(msg)
	case phasePick:
		m.deviceList, cmd = m.deviceList.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(AppName) + "\n")

	switch m.phase {

	case phaseEntry:
		b.WriteString(SubtitleStyle.Render("Enter the TV's address, or leave empty to scan the network.") + "\n\n")
		b.WriteString(BoxStyle.Render("Host\n" + m.hostInput.View()))
		b.WriteString("\n" + m.formErrors())

	case phaseWorking:
		b.WriteString("\n" + m.spin.View() + " Working...\n")
		b.WriteString(HintStyle.Render("Scanning and contacting the TV can take a few seconds.") + "\n")

	case phasePick:
		b.WriteString("\n" + m.deviceList.View() + "\n")
		b.WriteString(m.formErrors())

	case phaseAuthorize:
		b.WriteString(SubtitleStyle.Render("The TV is showing a pairing PIN on screen. Type it here.") + "\n\n")
		b.WriteString(BoxStyle.Render("Access token\n" + m.pinInput.View()))
		b.WriteString("\n" + m.formErrors())

	case phaseDone:
		if m.saveErr != nil {
			b.WriteString("\n" + ErrorStyle.Render("Configured, but saving failed: "+m.saveErr.Error()) + "\n")
		} else {
			b.WriteString("\n" + SuccessStyle.Render("✓ "+m.created.Name+" configured") + "\n")
			b.WriteString(fmt.Sprintf("  Host: %s\n", m.created.Host))
			if m.created.ID != "" {
				b.WriteString(fmt.Sprintf("  ID:   %s\n", m.created.ID))
			}
		}
		b.WriteString(HintStyle.Render("\nPress any key to exit.") + "\n")

	case phaseAborted:
		b.WriteString("\n" + WarningStyle.Render(abortMessage(m.outcome.Reason)) + "\n")
		b.WriteString(HintStyle.Render("\nPress any key to exit.") + "\n")
	}

	if m.phase == phaseEntry || m.phase == phasePick || m.phase == phaseAuthorize {
		b.WriteString("\n" + m.help.View(m.keys) + "\n")
	}

	return b.String()
}

// formErrors renders the current outcome's field errors, if any.
func (m Model) formErrors() string {
	if len(m.outcome.Errors) == 0 {
		return ""
	}
	var lines []string
	for _, code := range m.outcome.Errors {
		lines = append(lines, ErrorStyle.Render("✗ "+errorMessage(code)))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

func deviceItems(devices map[string]string) []list.Item {
	ids := make([]string, 0, len(devices))
	for id := range devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]list.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, deviceItem{id: id, name: devices[id]})
	}
	return items
}
