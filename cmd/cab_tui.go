// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Trackside Labs

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tracksidelabs/wicab/pkg/withrottle"
)

//////////////////////////////////////////////////////////////
// Constants
//////////////////////////////////////////////////////////////

const (
	checkIntervalMs = 100 // Drive-loop cadence inside the TUI
	maxLogEntries   = 200
)

// Focus states
const (
	focusAddressInput = iota
	focusCab
)

//////////////////////////////////////////////////////////////
// Types
//////////////////////////////////////////////////////////////

// loco represents a locomotive address the server confirmed for this
// throttle
type loco struct {
	address string
	entry   string
}

// Implement list.Item interface
func (l loco) Title() string       { return l.address }
func (l loco) Description() string { return l.entry }
func (l loco) FilterValue() string { return l.address }

// cabEvents receives delegate callbacks and accumulates them for the
// model. All callbacks fire inside throttle.Check(), which runs in the
// update loop, so no locking is needed.
type cabEvents struct {
	logLines []string

	added       []loco
	removed     []string
	stealNeeded []string

	trackPower    withrottle.TrackPower
	haveTrack     bool
	version       string
	functions     map[int]bool
	speed         int
	direction     withrottle.Direction
	haveDirection bool
}

func newCabEvents() *cabEvents {
	return &cabEvents{
		trackPower: withrottle.PowerUnknown,
		functions:  make(map[int]bool),
	}
}

func (e *cabEvents) logf(format string, args ...interface{}) {
	stamp := time.Now().Format("15:04:05")
	e.logLines = append(e.logLines, fmt.Sprintf("%s %s", stamp, fmt.Sprintf(format, args...)))
	if len(e.logLines) > maxLogEntries {
		e.logLines = e.logLines[len(e.logLines)-maxLogEntries:]
	}
}

func (e *cabEvents) HeartbeatConfig(seconds int) {
	e.logf("heartbeat period set to %ds", seconds)
}

func (e *cabEvents) ReceivedVersion(version string) {
	e.version = version
	e.logf("server protocol version %s", version)
}

func (e *cabEvents) ReceivedWebPort(port int) {
	e.logf("server web port %d", port)
}

func (e *cabEvents) ReceivedTrackPower(state withrottle.TrackPower) {
	e.trackPower = state
	e.haveTrack = true
	e.logf("track power %s", state)
}

func (e *cabEvents) ReceivedFunctionState(funcNum int, state bool) {
	e.functions[funcNum] = state
	e.logf("function F%d %v", funcNum, onOff(state))
}

func (e *cabEvents) ReceivedSpeed(speed int) {
	e.speed = speed
	e.logf("speed %d", speed)
}

func (e *cabEvents) ReceivedSpeedSteps(steps int) {
	e.logf("speed steps %d", steps)
}

func (e *cabEvents) ReceivedDirection(dir withrottle.Direction) {
	e.direction = dir
	e.haveDirection = true
	e.logf("direction %s", dir)
}

func (e *cabEvents) AddressAdded(address, entry string) {
	e.added = append(e.added, loco{address: address, entry: entry})
	e.logf("acquired %s (%s)", address, entry)
}

func (e *cabEvents) AddressRemoved(address, entry string) {
	e.removed = append(e.removed, address)
	e.logf("released %s (%s)", address, entry)
}

func (e *cabEvents) AddressStealNeeded(address, entry string) {
	e.stealNeeded = append(e.stealNeeded, address)
	e.logf("steal needed for %s - press s to steal", address)
}

func onOff(state bool) string {
	if state {
		return "on"
	}
	return "off"
}

// cabModel is the Bubble Tea model for the cab TUI
type cabModel struct {
	throttle *withrottle.Throttle
	events   *cabEvents
	connInfo string

	// Acquired locomotives
	locoList list.Model

	// Address entry
	addrInput    textinput.Model
	focusedField int

	// UI state
	width    int
	height   int
	quitting bool
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type cabTickMsg time.Time

//////////////////////////////////////////////////////////////
// Model Initialization
//////////////////////////////////////////////////////////////

func initialCabModel(throttle *withrottle.Throttle, connInfo string) cabModel {
	events := newCabEvents()
	throttle.SetDelegate(events)

	ti := textinput.New()
	ti.Placeholder = "L1234"
	ti.CharLimit = 8
	ti.Width = 12
	ti.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.SetHeight(2)
	locoList := list.New([]list.Item{}, delegate, 24, 8)
	locoList.Title = "Locomotives"
	locoList.SetShowStatusBar(false)
	locoList.SetShowHelp(false)
	locoList.SetFilteringEnabled(false)

	return cabModel{
		throttle:     throttle,
		events:       events,
		connInfo:     connInfo,
		locoList:     locoList,
		addrInput:    ti,
		focusedField: focusAddressInput,
		width:        80,
		height:       24,
	}
}

//////////////////////////////////////////////////////////////
// Bubble Tea Interface
//////////////////////////////////////////////////////////////

func (m cabModel) Init() tea.Cmd {
	return cabTickCmd()
}

func cabTickCmd() tea.Cmd {
	return tea.Tick(checkIntervalMs*time.Millisecond, func(t time.Time) tea.Msg {
		return cabTickMsg(t)
	})
}

func (m cabModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.locoList.SetSize(24, maxInt(6, m.height-14))

	case cabTickMsg:
		m.throttle.Check()
		m.syncLocoList()
		return m, cabTickCmd()
	}

	var cmd tea.Cmd
	if m.focusedField == focusAddressInput {
		m.addrInput, cmd = m.addrInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m cabModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys first
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		if m.focusedField == focusAddressInput {
			m.focusedField = focusCab
			m.addrInput.Blur()
		} else {
			m.focusedField = focusAddressInput
			m.addrInput.Focus()
		}
		return m, nil
	}

	if m.focusedField == focusAddressInput {
		switch msg.String() {
		case "enter":
			address := strings.ToUpper(strings.TrimSpace(m.addrInput.Value()))
			if address != "" {
				if m.throttle.AddLocomotive(address) {
					m.events.logf("requesting %s", address)
					m.addrInput.SetValue("")
					m.focusedField = focusCab
					m.addrInput.Blur()
				} else {
					m.events.logf("invalid address %q (use L<addr> or S<addr>)", address)
				}
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.addrInput, cmd = m.addrInput.Update(msg)
		return m, cmd
	}

	// Cab focus
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "up":
		m.throttle.SetSpeed(m.throttle.Speed() + 1)
	case "down":
		m.throttle.SetSpeed(m.throttle.Speed() - 1)
	case "shift+up":
		m.throttle.SetSpeed(minInt(withrottle.MaxSpeed, m.throttle.Speed()+10))
	case "shift+down":
		m.throttle.SetSpeed(maxInt(withrottle.MinSpeed, m.throttle.Speed()-10))

	case "left":
		m.throttle.SetDirection(withrottle.Reverse)
	case "right":
		m.throttle.SetDirection(withrottle.Forward)

	case "x":
		if m.throttle.EmergencyStop() {
			m.events.logf("EMERGENCY STOP")
		}

	case "r":
		if addr := m.throttle.SelectedAddress(); addr != "" {
			m.throttle.ReleaseLocomotive(addr)
			m.events.logf("releasing %s", addr)
		}

	case "s":
		address := strings.ToUpper(strings.TrimSpace(m.addrInput.Value()))
		if address == "" && len(m.events.stealNeeded) > 0 {
			address = m.events.stealNeeded[len(m.events.stealNeeded)-1]
		}
		if address != "" {
			if m.throttle.StealLocomotive(address) {
				m.events.logf("stealing %s", address)
			} else {
				m.events.logf("steal of %q failed", address)
			}
		}

	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(msg.String()[0] - '0')
		pressed := !m.events.functions[n]
		if m.throttle.SetFunction(n, pressed) {
			// The authoritative state comes back as an MTA F event;
			// track the intent locally so the key toggles.
			m.events.functions[n] = pressed
		}
	}

	var cmd tea.Cmd
	m.locoList, cmd = m.locoList.Update(msg)
	return m, cmd
}

// syncLocoList folds confirmed add/remove events into the list.
func (m *cabModel) syncLocoList() {
	if len(m.events.added) == 0 && len(m.events.removed) == 0 {
		return
	}

	current := make(map[string]loco)
	for _, item := range m.locoList.Items() {
		l := item.(loco)
		current[l.address] = l
	}
	for _, l := range m.events.added {
		current[l.address] = l
	}
	for _, addr := range m.events.removed {
		delete(current, addr)
	}
	m.events.added = nil
	m.events.removed = nil

	items := make([]list.Item, 0, len(current))
	for _, l := range current {
		items = append(items, l)
	}
	m.locoList.SetItems(items)
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

var (
	cabTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	cabPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	cabLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	cabValueStyle = lipgloss.NewStyle().Bold(true)

	cabAlertStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	cabHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m cabModel) View() string {
	if m.quitting {
		return ""
	}

	title := cabTitleStyle.Render("wicab") + " " + cabLabelStyle.Render(m.connInfo)

	status := m.renderStatus()
	functions := m.renderFunctions()
	log := m.renderLog()

	left := lipgloss.JoinVertical(lipgloss.Left,
		cabPanelStyle.Render(status),
		cabPanelStyle.Render(functions),
	)
	right := cabPanelStyle.Render(m.locoList.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	entry := cabLabelStyle.Render("Address: ") + m.addrInput.View()

	help := cabHelpStyle.Render(
		"tab focus · enter acquire · s steal · r release · ↑/↓ speed · ←/→ direction · 0-9 functions · x ESTOP · q quit")

	return lipgloss.JoinVertical(lipgloss.Left, title, entry, body, log, help)
}

func (m cabModel) renderStatus() string {
	var b strings.Builder

	address := m.throttle.SelectedAddress()
	if address == "" {
		address = "(none)"
	}
	b.WriteString(cabLabelStyle.Render("Loco      ") + cabValueStyle.Render(address) + "\n")

	speed := m.throttle.Speed()
	bar := renderSpeedBar(speed, 20)
	b.WriteString(cabLabelStyle.Render("Speed     ") +
		cabValueStyle.Render(fmt.Sprintf("%3d ", speed)) + bar + "\n")

	dir := "-"
	if m.throttle.SelectedAddress() != "" || m.events.haveDirection {
		dir = m.throttle.CurrentDirection().String()
	}
	b.WriteString(cabLabelStyle.Render("Direction ") + cabValueStyle.Render(dir) + "\n")

	if steps := m.throttle.SpeedSteps(); steps != 0 {
		b.WriteString(cabLabelStyle.Render("Steps     ") +
			cabValueStyle.Render(fmt.Sprintf("%d", steps)) + "\n")
	}

	power := "unknown"
	if m.events.haveTrack {
		power = m.events.trackPower.String()
	}
	b.WriteString(cabLabelStyle.Render("Track     ") + cabValueStyle.Render(power) + "\n")

	if rate := m.throttle.FastTimeRate(); rate != 0 {
		b.WriteString(cabLabelStyle.Render("Fast time ") +
			cabValueStyle.Render(fmt.Sprintf("%02d:%02d (%.1fx)",
				m.throttle.FastTimeHours(), m.throttle.FastTimeMinutes(), rate)) + "\n")
	}

	if period := m.throttle.HeartbeatPeriod(); period > 0 {
		b.WriteString(cabLabelStyle.Render("Heartbeat ") +
			cabValueStyle.Render(fmt.Sprintf("every %ds", period/2)) + "\n")
	}

	if m.events.version != "" {
		b.WriteString(cabLabelStyle.Render("Server    ") +
			cabValueStyle.Render("v"+m.events.version))
	}

	return b.String()
}

func (m cabModel) renderFunctions() string {
	var b strings.Builder
	b.WriteString(cabLabelStyle.Render("Functions") + "\n")
	for n := 0; n <= 9; n++ {
		if m.events.functions[n] {
			b.WriteString(cabValueStyle.Render(fmt.Sprintf("[F%d]", n)))
		} else {
			b.WriteString(cabLabelStyle.Render(fmt.Sprintf(" F%d ", n)))
		}
		if n == 4 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m cabModel) renderLog() string {
	lines := m.events.logLines
	visible := 6
	if len(lines) > visible {
		lines = lines[len(lines)-visible:]
	}

	var b strings.Builder
	for _, line := range lines {
		if strings.Contains(line, "EMERGENCY") || strings.Contains(line, "steal needed") {
			b.WriteString(cabAlertStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return cabPanelStyle.Width(maxInt(40, m.width-4)).Render(strings.TrimRight(b.String(), "\n"))
}

func renderSpeedBar(speed, width int) string {
	filled := speed * width / withrottle.MaxSpeed
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
