package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/orbit"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected ⠁, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected ⢀, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(5, 2)
	c.DrawLine(0, 0, 9, 7)
	if !c.IsSet(0, 0) || !c.IsSet(9, 7) {
		t.Error("line endpoints not set")
	}
}

func TestCanvasDrawCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawCircle(10, 10, 6)
	for _, p := range [][2]int{{16, 10}, {4, 10}, {10, 16}, {10, 4}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d, %d) on the circle", p[0], p[1])
		}
	}
	if c.IsSet(10, 10) {
		t.Error("circle outline should not set the centre")
	}

	c.Clear()
	c.FillCircle(10, 10, 2)
	if !c.IsSet(10, 10) || !c.IsSet(12, 10) || c.IsSet(12, 12) {
		t.Error("unexpected filled disk")
	}
}

func TestSceneProject(t *testing.T) {
	s := NewScene(20, 10, 10)
	cx, cy := s.Project(0, 0)
	if cx != 20 || cy != 20 {
		t.Errorf("expected centre (20, 20), got (%d, %d)", cx, cy)
	}
	x, y := s.Project(10, 0)
	if x != 40 || y != 20 {
		t.Errorf("expected (40, 20), got (%d, %d)", x, y)
	}
	x, y = s.Project(10, math.Pi/2)
	if x != 20 || y != 0 {
		t.Errorf("expected y up at φ=π/2, got (%d, %d)", x, y)
	}
}

func TestSceneRender(t *testing.T) {
	s := NewScene(40, 20, 20)
	empty := s.Render(nil)
	if !s.Canvas.IsSet(40, 40) {
		t.Error("expected the horizon disk at the centre")
	}

	traj := &orbit.Trajectory{Samples: []orbit.Sample{{R: 10, Phi: 0}, {R: 10, Phi: 0.5}, {R: 10, Phi: 1}}}
	drawn := s.Render([]*orbit.Trajectory{traj, {Outcome: orbit.Rejected}})
	if drawn == empty {
		t.Error("expected trajectory to change the scene")
	}
	if x, y := s.Project(10, 0.5); !s.Canvas.IsSet(x, y) {
		t.Error("expected trajectory sample to be drawn")
	}
}

func TestRadiusChart(t *testing.T) {
	if RadiusChart(nil, 20, 5) != "" {
		t.Error("expected no chart for nil trajectory")
	}
	traj := &orbit.Trajectory{Samples: []orbit.Sample{{R: 8, Phi: 0}, {R: 12, Phi: 1}, {R: 9, Phi: 2}}}
	chart := RadiusChart(traj, 20, 5)
	if !strings.Contains(chart, "r(φ)") {
		t.Errorf("expected caption, got %q", chart)
	}
}

func newTestExplorer(t *testing.T) Explorer {
	t.Helper()
	in, err := orbit.New(dynamo.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return NewExplorer(in, orbit.Params{E: 0.98, L: 3.9, R0: 8, MaxSteps: 3000}, nil)
}

func press(m Explorer, keys ...tea.KeyMsg) Explorer {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Explorer)
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

func TestExplorerAddAndReset(t *testing.T) {
	m := press(newTestExplorer(t), keyEnter, keyEnter)
	if m.Collection().Len() != 2 || m.Collection().TotalSamples() != 6000 {
		t.Fatalf("expected two 3000-point orbits, got %d / %d", m.Collection().Len(), m.Collection().TotalSamples())
	}
	if !strings.Contains(m.View(), "6000") {
		t.Error("expected point total in the legend")
	}

	m = press(m, runeKey('r'))
	if m.Collection().Len() != 0 {
		t.Error("expected reset to clear the collection")
	}
}

func TestExplorerRejectsLowEnergy(t *testing.T) {
	m := newTestExplorer(t)
	for i := 0; i < 100; i++ {
		m = press(m, keyDown)
	}
	if got := m.Params().E; math.Abs(got-0.88) > 1e-9 {
		t.Fatalf("expected E 0.88, got %f", got)
	}
	m = press(m, keyEnter)
	if m.Collection().Len() != 0 {
		t.Error("expected inadmissible start to add nothing")
	}
	if !strings.Contains(m.Status(), "raise E or L") {
		t.Errorf("expected hint, got %q", m.Status())
	}
}

func TestExplorerAdjustClamps(t *testing.T) {
	m := press(newTestExplorer(t), keyTab)
	for i := 0; i < 200; i++ {
		m = press(m, keyUp)
	}
	if m.Params().L != 6 {
		t.Errorf("expected L clamped to 6, got %f", m.Params().L)
	}
	m = press(m, keyTab, keyTab, keyDown)
	if m.Params().MaxSteps != 2900 {
		t.Errorf("expected 2900 steps, got %d", m.Params().MaxSteps)
	}
}

func TestExplorerPresetsAndQuit(t *testing.T) {
	m := press(newTestExplorer(t), runeKey('p'))
	if p := m.Params(); p.E != 0.9562 || p.R0 != 10 {
		t.Errorf("expected circular preset, got %+v", p)
	}

	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
