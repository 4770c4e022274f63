package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/geodesim/internal/config"
	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geodesic"
	"github.com/san-kum/geodesim/internal/orbit"
)

const (
	canvasWidth  = 60
	canvasHeight = 24
)

// param is one tunable input with its slider range.
type param struct {
	name     string
	lo, hi   float64
	step     float64
	get      func(*orbit.Params) float64
	set      func(*orbit.Params, float64)
	decimals int
}

var params = []param{
	{"E", 0.85, 1.15, 0.001,
		func(p *orbit.Params) float64 { return p.E },
		func(p *orbit.Params, v float64) { p.E = v }, 3},
	{"L", 3, 6, 0.05,
		func(p *orbit.Params) float64 { return p.L },
		func(p *orbit.Params, v float64) { p.L = v }, 2},
	{"r0", 3, 15, 0.5,
		func(p *orbit.Params) float64 { return p.R0 },
		func(p *orbit.Params, v float64) { p.R0 = v }, 1},
	{"steps", 500, 20000, 100,
		func(p *orbit.Params) float64 { return float64(p.MaxSteps) },
		func(p *orbit.Params, v float64) { p.MaxSteps = int(math.Round(v)) }, 0},
}

// Explorer is the interactive orbit workbench. Trajectories accumulate in
// the caller's collection until reset.
type Explorer struct {
	in       *orbit.Integrator
	params   orbit.Params
	coll     *orbit.Collection
	scene    *Scene
	selected int
	preset   int
	presets  []string
	status   string
	failed   bool
}

func NewExplorer(in *orbit.Integrator, p orbit.Params, coll *orbit.Collection) Explorer {
	if coll == nil {
		coll = orbit.NewCollection()
	}
	return Explorer{
		in:      in,
		params:  p,
		coll:    coll,
		scene:   NewScene(canvasWidth, canvasHeight, in.Config().OuterRadius/2),
		preset:  -1,
		presets: config.ListPresets(),
		status:  "enter to compute",
	}
}

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Params() orbit.Params          { return m.params }
func (m Explorer) Collection() *orbit.Collection { return m.coll }
func (m Explorer) Status() string                { return m.status }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.selected = (m.selected + 1) % len(params)
	case "shift+tab":
		m.selected = (m.selected + len(params) - 1) % len(params)
	case "up", "k":
		m.adjust(1)
	case "down", "j":
		m.adjust(-1)
	case "right", "l":
		m.adjust(10)
	case "left", "h":
		m.adjust(-10)
	case "enter":
		m.compute()
	case "r":
		m.coll.Clear()
		m.status, m.failed = "cleared", false
	case "p":
		m.cyclePreset()
	}
	return m, nil
}

func (m *Explorer) adjust(ticks int) {
	pr := params[m.selected]
	v := pr.get(&m.params) + float64(ticks)*pr.step
	v = math.Max(pr.lo, math.Min(pr.hi, v))
	// snap to the slider grid so repeated ticks do not drift
	v = pr.lo + math.Round((v-pr.lo)/pr.step)*pr.step
	pr.set(&m.params, v)
}

func (m *Explorer) compute() {
	traj, err := m.in.Compute(m.params)
	switch {
	case errors.Is(err, dynamo.ErrInvalidInitialConditions):
		m.status = fmt.Sprintf("no trajectory: E < %.4f at r0=%g, raise E or L",
			geodesic.MinEnergy(m.params.L, m.params.R0), m.params.R0)
		m.failed = true
	case err != nil:
		m.status, m.failed = err.Error(), true
	case !m.coll.Add(traj):
		m.status, m.failed = fmt.Sprintf("%s before the first sample", traj.Outcome), true
	default:
		m.status = fmt.Sprintf("%d points, %s", traj.Len(), traj.Outcome)
		m.failed = false
	}
}

func (m *Explorer) cyclePreset() {
	if len(m.presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(m.presets)
	p := config.GetPreset(m.presets[m.preset])
	m.params = orbit.Params{
		E:        p.Orbit.Energy,
		L:        p.Orbit.AngularMomentum,
		R0:       p.Orbit.R0,
		MaxSteps: p.Orbit.MaxSteps,
	}
	m.status, m.failed = "preset "+p.Name+": "+p.Description, false
}

func (m Explorer) View() string {
	canvasView := canvasStyle.Render(m.scene.Render(m.coll.All()))

	var s strings.Builder
	s.WriteString(headerStyle.Render("SCHWARZSCHILD ORBITS") + "\n")
	s.WriteString(horizonStyle.Render(fmt.Sprintf("● horizon   rs = %.1fM", geodesic.SchwarzschildRadius)) + "\n")
	s.WriteString(photonStyle.Render(fmt.Sprintf("· photon    r = %.0fM", geodesic.PhotonSphereRadius)) + "\n")
	s.WriteString(iscoStyle.Render(fmt.Sprintf("· ISCO      r = %.0fM", geodesic.ISCORadius)) + "\n\n")

	for i, pr := range params {
		line := fmt.Sprintf("%-6s %.*f", pr.name, pr.decimals, pr.get(&m.params))
		if i == m.selected {
			s.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("E_min") + valueStyle.Render(fmt.Sprintf("%.4f", geodesic.MinEnergy(m.params.L, m.params.R0))) + "\n")
	s.WriteString(labelStyle.Render("Orbits") + valueStyle.Render(fmt.Sprintf("%d", m.coll.Len())) + "\n")
	s.WriteString(labelStyle.Render("Points") + valueStyle.Render(fmt.Sprintf("%d", m.coll.TotalSamples())) + "\n")

	if all := m.coll.All(); len(all) > 0 {
		s.WriteString(graphStyle.Render(RadiusChart(all[len(all)-1], 30, 5)) + "\n")
	}

	if m.failed {
		s.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	} else {
		s.WriteString("\n" + valueStyle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nTab:Param ↑↓:Tune ←→:x10\nEnter:Add R:Reset P:Preset Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
}
