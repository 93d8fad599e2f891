package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dtsim/internal/loop"
)

const (
	chartWidth      = 70
	chartHeight     = 12
	historyCapacity = 600
)

var gainNames = []string{"Kp", "Ki", "Kd"}

type TickMsg time.Time

// Model steps a closed loop one sample per frame and renders the recent
// tracking history. Regulator gains can be retuned while it runs.
type Model struct {
	loop      *loop.Loop
	plantName string

	running  bool
	selected int
	showHelp bool

	k        int
	lastR    float64
	lastE    float64
	lastU    float64
	lastY    float64
	refs     []float64
	outputs  []float64
	controls []float64
}

func NewModel(l *loop.Loop, plantName string) Model {
	return Model{
		loop:      l,
		plantName: plantName,
		running:   true,
		refs:      make([]float64, 0, historyCapacity),
		outputs:   make([]float64, 0, historyCapacity),
		controls:  make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(gainNames)
		case "up", "k":
			m.adjustGain(1.05)
		case "down", "j":
			m.adjustGain(0.95)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	r, e, u, y := m.loop.Step()
	m.k++
	m.lastR, m.lastE, m.lastU, m.lastY = r, e, u, y

	m.refs = append(m.refs, r)
	m.outputs = append(m.outputs, y)
	m.controls = append(m.controls, u)
	if len(m.refs) > historyCapacity {
		m.refs = m.refs[1:]
		m.outputs = m.outputs[1:]
		m.controls = m.controls[1:]
	}
}

func (m *Model) adjustGain(factor float64) {
	pid := m.loop.Regulator()
	switch gainNames[m.selected] {
	case "Kp":
		m.setOrSeed(pid.Kp, pid.SetKp, factor)
	case "Ki":
		m.setOrSeed(pid.Ki, pid.SetKi, factor)
	case "Kd":
		m.setOrSeed(pid.Kd, pid.SetKd, factor)
	}
}

// setOrSeed scales a gain, nudging it off zero first so the arrow keys
// always have an effect.
func (m *Model) setOrSeed(get func() float64, set func(float64), factor float64) {
	val := get()
	if val == 0 {
		val = 0.01
	}
	set(val * factor)
}

// reset restarts the run but keeps whatever gains the user has dialed in.
func (m *Model) reset() {
	m.loop.Reset()
	m.k = 0
	m.lastR, m.lastE, m.lastU, m.lastY = 0, 0, 0, 0
	m.refs = m.refs[:0]
	m.outputs = m.outputs[:0]
	m.controls = m.controls[:0]
}

func (m Model) View() string {
	var chart string
	if len(m.refs) > 1 {
		chart = asciigraph.PlotMany(
			[][]float64{m.refs, m.outputs},
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Caption("reference vs output"),
			asciigraph.SeriesColors(asciigraph.Gray, asciigraph.Green),
		)
	} else {
		chart = "(waiting for samples)"
	}
	chartView := chartStyle.Render(chart)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.plantName)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	ts := m.loop.SamplingTime()
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%d", m.k)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", float64(m.k)*ts)) + "\n")
	s.WriteString(labelStyle.Render("Reference") + valueStyle.Render(fmt.Sprintf("%.4f", m.lastR)) + "\n")
	s.WriteString(labelStyle.Render("Output") + valueStyle.Render(fmt.Sprintf("%.4f", m.lastY)) + "\n")
	s.WriteString(labelStyle.Render("Error") + valueStyle.Render(fmt.Sprintf("%.4f", m.lastE)) + "\n")
	s.WriteString(labelStyle.Render("Control") + valueStyle.Render(fmt.Sprintf("%.4f", m.lastU)) + "\n")

	s.WriteString("\nGAINS\n")
	pid := m.loop.Regulator()
	for i, name := range gainNames {
		var val float64
		switch name {
		case "Kp":
			val = pid.Kp()
		case "Ki":
			val = pid.Ki()
		case "Kd":
			val = pid.Kd()
		}
		line := fmt.Sprintf("%-4s %.4f", name, val)
		if i == m.selected {
			s.WriteString(activeGainStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit\nTab:Gain ↑↓:Tune ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, chartView, statsView)

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume the loop    ║
║  R        - Restart the run          ║
║  Q        - Quit                     ║
║  Tab      - Select gain              ║
║  Up/K     - Increase gain (+5%)      ║
║  Down/J   - Decrease gain (-5%)      ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view and blocks until the user quits.
func Run(l *loop.Loop, plantName string) error {
	p := tea.NewProgram(NewModel(l, plantName))
	_, err := p.Run()
	return err
}
