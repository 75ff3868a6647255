package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/teleoparm/pkg/input"
	"github.com/gwillem/teleoparm/pkg/robot"
	"github.com/gwillem/teleoparm/pkg/sim"
	"github.com/gwillem/teleoparm/pkg/teleop"
)

type RunCommand struct {
	Hz     int    `long:"hz" default:"60" description:"Step rate of the built-in engine"`
	Config string `long:"config" description:"Robot configuration file (default teleoparm.json)"`
	Mirror bool   `long:"mirror" description:"Mirror actuator commands to a physical arm (needs setup)"`
	HoldMs int    `long:"hold-ms" default:"150" description:"How long a key counts as held after its last event"`
}

type InitCommand struct {
	Force bool `long:"force" description:"Overwrite an existing configuration file"`
}

func (c *InitCommand) Execute(args []string) error {
	if teleop.ConfigExists() && !c.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", teleop.DefaultConfigFile)
	}
	if err := teleop.DefaultConfig().Save(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", teleop.DefaultConfigFile)
	return nil
}

const (
	headerHeight = 2 // title + blank line
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Distinct colors cycled across actuator traces.
var traceColors = []string{"196", "208", "226", "46", "51", "201", "39", "135", "214", "118"}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

// actuatorLabels names each actuator id from the robot configuration.
func actuatorLabels(cfg *teleop.Config) map[int]string {
	labels := make(map[int]string)
	for ai := range cfg.Arms {
		names := robot.AllMotors()
		for i, idx := range cfg.Arms[ai].Indices {
			switch {
			case i == len(cfg.Arms[ai].Indices)-1:
				labels[idx] = armLabel(ai, len(cfg.Arms), string(robot.Gripper))
			case i < len(names)-1:
				labels[idx] = armLabel(ai, len(cfg.Arms), string(names[i]))
			default:
				labels[idx] = armLabel(ai, len(cfg.Arms), fmt.Sprintf("aux%d", i))
			}
		}
	}
	if cfg.Base != nil {
		labels[cfg.Base.Indices[0]] = "base_linear"
		labels[cfg.Base.Indices[1]] = "base_angular"
	}
	if cfg.Head != nil {
		labels[cfg.Head.Indices[0]] = "head_pan"
		labels[cfg.Head.Indices[1]] = "head_tilt"
	}
	return labels
}

func armLabel(arm, numArms int, name string) string {
	if numArms > 1 {
		return fmt.Sprintf("arm%d_%s", arm, name)
	}
	return name
}

// numActuators is one past the highest actuator id in the config.
func numActuators(cfg *teleop.Config) int {
	n := 0
	bump := func(idx int) {
		if idx+1 > n {
			n = idx + 1
		}
	}
	for i := range cfg.Arms {
		for _, idx := range cfg.Arms[i].Indices {
			bump(idx)
		}
	}
	if cfg.Base != nil {
		bump(cfg.Base.Indices[0])
		bump(cfg.Base.Indices[1])
	}
	if cfg.Head != nil {
		bump(cfg.Head.Indices[0])
		bump(cfg.Head.Indices[1])
	}
	return n
}

type runModel struct {
	rt       *teleop.Runtime
	labels   map[int]string
	n        int
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	lastArms []teleop.ArmSnapshot
	quitting bool
}

func (m *runModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the runtime
type stateMsg teleop.State
type logMsg string

func waitForState(rt *teleop.Runtime) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-rt.States())
	}
}

func waitForLog(rt *teleop.Runtime) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-rt.Logs())
	}
}

func (m *runModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - legendHeight - footerHeight - borderSize
	if height < 10 {
		height = 10
	}
	return width, height
}

func (m *runModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func newRunModel(rt *teleop.Runtime, labels map[int]string, n int) runModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-3.5, 3.5),
	)

	for i := 0; i < n; i++ {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(traceColors[i%len(traceColors)]))
		chart.SetDataSetStyles(labelFor(labels, i), runes.ThinLineStyle, style)
	}

	return runModel{
		rt:     rt,
		labels: labels,
		n:      n,
		chart:  &chart,
	}
}

func labelFor(labels map[int]string, i int) string {
	if l, ok := labels[i]; ok {
		return l
	}
	return fmt.Sprintf("act%d", i)
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.rt),
		waitForLog(m.rt),
	)
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.BlurMsg:
		// Focus lost: never leave stale held keys latched.
		m.rt.ClearKeys()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		default:
			m.rt.Touch(msg.String())
		}
		return m, nil

	case stateMsg:
		state := teleop.State(msg)
		for i, pos := range state.Positions {
			m.chart.PushDataSet(labelFor(m.labels, i), pos)
		}
		m.chart.DrawAll()
		m.lastArms = state.Arms
		return m, waitForState(m.rt)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.rt)
	}

	return m, nil
}

func (m runModel) View() string {
	if m.quitting {
		return "Teleoperation stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Teleoparm"))
	sb.WriteString(fmt.Sprintf(" - %d Hz", m.rt.Hz()))
	for i, arm := range m.lastArms {
		if arm.Active {
			sb.WriteString("  " + activeStyle.Render(fmt.Sprintf("[arm %d: keyboard]", i)))
		} else {
			sb.WriteString("  " + statusStyle.Render(fmt.Sprintf("[arm %d: idle]", i)))
		}
	}
	sb.WriteString("\n\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(m.renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Hold movement keys to drive; Esc to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m runModel) renderLegend() string {
	var items []string
	for i := 0; i < m.n; i++ {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(traceColors[i%len(traceColors)])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+labelFor(m.labels, i))
	}
	return strings.Join(items, "  ")
}

func (c *RunCommand) Execute(args []string) error {
	path := c.Config
	if path == "" {
		path = teleop.DefaultConfigFile
	}

	var cfg *teleop.Config
	if _, err := os.Stat(path); err == nil {
		cfg, err = teleop.LoadConfigFrom(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		fmt.Printf("Loaded configuration from %s\n", path)
	} else {
		cfg = teleop.DefaultConfig()
		fmt.Println("No configuration found, using the default single-arm setup.")
	}

	ctrl, err := teleop.New(*cfg)
	if err != nil {
		return err
	}

	engine, err := sim.New(sim.Config{
		Actuators: numActuators(cfg),
		Hz:        c.Hz,
	})
	if err != nil {
		return err
	}

	var mirror *robot.Mirror
	if c.Mirror {
		mcfg, err := robot.LoadMirrorConfig()
		if err != nil {
			fmt.Fprintln(os.Stderr, "No mirror configuration found. Run 'teleoparm setup' first.")
			os.Exit(1)
		}
		if !mcfg.IsCalibrated() {
			fmt.Fprintln(os.Stderr, "Mirror arm not calibrated. Run 'teleoparm setup' first.")
			os.Exit(1)
		}
		arm, err := robot.NewArm(mcfg.Port, mcfg.Calibration)
		if err != nil {
			return fmt.Errorf("connect mirror arm: %w", err)
		}
		defer arm.Close()
		if err := arm.Enable(context.Background()); err != nil {
			return fmt.Errorf("enable mirror arm: %w", err)
		}
		mirror, err = robot.NewMirror(arm, cfg.Arms[0].Indices[:len(robot.AllMotors())])
		if err != nil {
			return err
		}
	}

	tracker := input.NewTracker(time.Duration(c.HoldMs) * time.Millisecond)
	rt := teleop.NewRuntime(ctrl, engine, tracker, mirror)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := rt.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Runtime error: %v", err)
		}
	}()

	p := tea.NewProgram(
		newRunModel(rt, actuatorLabels(cfg), engine.NumActuators()),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	return nil
}
