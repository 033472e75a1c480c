package app

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gpssim.weilijiang.com/internal/config"
	"gpssim.weilijiang.com/internal/controller"
	"gpssim.weilijiang.com/internal/form"
	"gpssim.weilijiang.com/internal/ui"
)

// Form keys that belong to the launcher rather than the simulator schema.
const (
	keyPort = "comport"
	keyBaud = "baudrate"
)

const (
	tickInterval = 250 * time.Millisecond
	noPortLabel  = "(none)"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	ctrl *controller.Controller
	log  *SentenceLog
}

// fieldState is one editable row. Selection rows keep an option index;
// text rows keep an input.
type fieldState struct {
	key      string
	label    string
	options  []string
	index    int
	input    textinput.Model
	rejected bool
}

func (f fieldState) selection() bool { return f.options != nil }

func (f fieldState) value() string {
	if f.selection() {
		if f.index < 0 || f.index >= len(f.options) {
			return ""
		}
		return f.options[f.index]
	}
	return f.input.Value()
}

// setValue shows v. A selection row ignores a value it does not offer.
func (f *fieldState) setValue(v string) {
	if !f.selection() {
		f.input.SetValue(v)
		return
	}
	for i, o := range f.options {
		if o == v {
			f.index = i
			return
		}
	}
}

// Options configures the console.
type Options struct {
	Ports     []string // discovered devices, "" first
	BaudRate  int
	Autostart bool
}

// AppModel is the root Bubble Tea model for the simulator console.
type AppModel struct {
	width  int
	height int

	fields []fieldState
	cursor int

	autostart bool
	running   bool
	runID     string
	started   time.Time
	baudRate  int
	rejected  int
	message   string
	err       error

	shared *shared

	// Cached snapshot
	sentences []string
	total     int
}

// New builds the form from the pipeline schema. The device and baud rows
// follow the output row.
func New(ctrl *controller.Controller, pipeline *form.Pipeline, log *SentenceLog, opts Options) AppModel {
	baud := opts.BaudRate
	if !config.IsStandardBaudRate(baud) {
		baud = config.DefaultBaudRate
	}
	ports := opts.Ports
	if len(ports) == 0 {
		ports = []string{""}
	}

	var fields []fieldState
	for _, f := range pipeline.Fields() {
		fs := fieldState{key: f.Key, label: f.Label}
		if f.Kind.Selection() {
			fs.options = f.Options
		} else {
			fs.input = newInput()
		}
		fs.setValue(f.Default())
		fields = append(fields, fs)

		if f.Key == "output" {
			port := fieldState{key: keyPort, label: "Serial port:", options: ports}
			rate := fieldState{key: keyBaud, label: "Baud rate:", options: config.BaudRateOptions()}
			rate.setValue(strconv.Itoa(baud))
			fields = append(fields, port, rate)
		}
	}

	m := AppModel{
		fields:    fields,
		autostart: opts.Autostart,
		baudRate:  baud,
		shared:    &shared{ctrl: ctrl, log: log},
	}
	m.focus()
	return m
}

func newInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Width = config.TextWidth
	return ti
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, tickCmd()}
	if m.autostart {
		cmds = append(cmds, commitCmd())
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.refresh()
		return m, tickCmd()

	case CommitMsg:
		m.commit()
		return m, nil
	}

	return m, m.updateInput(msg)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.shared.ctrl.Stop()
		return m, tea.Quit

	case "enter":
		m.message = "Starting simulator..."
		m.err = nil
		return m, commitCmd()

	case "up", "shift+tab":
		if m.cursor > 0 {
			m.cursor--
		}
		m.focus()
		return m, nil

	case "down", "tab":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		m.focus()
		return m, nil
	}

	f := &m.fields[m.cursor]
	if f.selection() {
		switch msg.String() {
		case "left":
			f.index = (f.index - 1 + len(f.options)) % len(f.options)
		case "right", " ":
			f.index = (f.index + 1) % len(f.options)
		}
		return m, nil
	}
	return m, m.updateInput(msg)
}

// updateInput forwards msg to the focused text input.
func (m AppModel) updateInput(msg tea.Msg) tea.Cmd {
	if len(m.fields) == 0 || m.fields[m.cursor].selection() {
		return nil
	}
	var cmd tea.Cmd
	m.fields[m.cursor].input, cmd = m.fields[m.cursor].input.Update(msg)
	return cmd
}

func (m *AppModel) focus() {
	for i := range m.fields {
		if m.fields[i].selection() {
			continue
		}
		if i == m.cursor {
			m.fields[i].input.Focus()
		} else {
			m.fields[i].input.Blur()
		}
	}
}

// values collects the schema fields for the pipeline.
func (m AppModel) values() form.Values {
	out := make(form.Values, len(m.fields))
	for _, f := range m.fields {
		if f.key == keyPort || f.key == keyBaud {
			continue
		}
		out[f.key] = f.value()
	}
	return out
}

func (m AppModel) fieldValue(key string) string {
	for _, f := range m.fields {
		if f.key == key {
			return f.value()
		}
	}
	return ""
}

// commit restarts the simulator with the form contents and shows what the
// configuration now holds.
func (m *AppModel) commit() {
	baud, _ := strconv.Atoi(m.fieldValue(keyBaud))
	req := controller.Request{
		Values:   m.values(),
		Port:     m.fieldValue(keyPort),
		BaudRate: baud,
	}

	res, err := m.shared.ctrl.Restart(context.Background(), req)
	m.apply(res)
	m.baudRate = baud
	if !config.IsStandardBaudRate(baud) {
		m.baudRate = config.DefaultBaudRate
	}
	if err != nil {
		m.err = err
		m.message = ""
	} else {
		m.err = nil
		m.message = "Simulator running"
	}
	m.refresh()
}

// apply writes the corrected display back into the form.
func (m *AppModel) apply(res form.Result) {
	rejected := make(map[string]bool, len(res.Outcomes))
	for _, o := range res.Outcomes {
		if !o.Accepted() {
			rejected[o.Key] = true
		}
	}
	m.rejected = len(rejected)
	for i := range m.fields {
		f := &m.fields[i]
		v, ok := res.Display[f.key]
		if !ok {
			continue
		}
		f.setValue(v)
		f.rejected = rejected[f.key]
	}
}

func (m *AppModel) refresh() {
	m.sentences = m.shared.log.Last(m.bodyHeight())
	m.total = m.shared.log.Total()
	m.running = m.shared.ctrl.State() == controller.Running
	m.runID = ""
	m.started = time.Time{}
	if run := m.shared.ctrl.Current(); run != nil && m.running {
		m.runID = run.ID
		m.started = run.Started
	} else if run != nil && run.Err() != nil && m.err == nil {
		m.err = run.Err()
		m.message = ""
	}
}

func (m AppModel) rows() []ui.FieldRow {
	rows := make([]ui.FieldRow, len(m.fields))
	for i, f := range m.fields {
		v := f.value()
		switch {
		case f.key == keyPort && v == "":
			v = noPortLabel
		case !f.selection() && i == m.cursor:
			v = f.input.View()
		}
		rows[i] = ui.FieldRow{
			Label:     f.label,
			Value:     v,
			Selection: f.selection(),
			Rejected:  f.rejected,
		}
	}
	return rows
}

// bodyHeight is the panel height between the menu and status bars.
func (m AppModel) bodyHeight() int {
	menuH := 1
	statusH := 1
	bodyH := m.height - menuH - statusH
	if bodyH < 5 {
		bodyH = 5
	}
	return bodyH
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	bodyH := m.bodyHeight()

	formW := m.width * 3 / 5
	if formW < 40 {
		formW = 40
	}
	logW := m.width - formW
	if logW < 20 {
		logW = 20
		formW = m.width - logW
	}

	port := m.fieldValue(keyPort)
	menuBar := ui.RenderMenuBar(m.width, port, m.running)
	formPanel := ui.RenderFieldList(m.rows(), formW, bodyH, m.cursor)
	logPanel := ui.RenderSentencePanel(m.sentences, m.total, logW, bodyH)
	statusBar := ui.RenderStatusBar(m.width, ui.Status{
		Running:  m.running,
		RunID:    m.runID,
		Started:  m.started,
		BaudRate: m.baudRate,
		Rejected: m.rejected,
		Message:  m.message,
		Err:      m.err,
	})

	return ui.ComposeLayout(menuBar, formPanel, logPanel, statusBar)
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func commitCmd() tea.Cmd {
	return func() tea.Msg { return CommitMsg{} }
}
