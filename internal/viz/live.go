package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/trajopt/internal/nlp"
	"github.com/san-kum/trajopt/internal/ocp"
)

// SolveUpdate is one backend iteration report.
type SolveUpdate struct {
	Iter         int
	Objective    float64
	Violation    float64
	Stationarity float64
}

type solveDoneMsg struct{ err error }

type tickMsg time.Time

// liveModel follows a running solve: spinner, iteration progress,
// objective and violation history.
type liveModel struct {
	problem string
	backend string
	maxIter int

	updates []SolveUpdate
	frame   int
	done    bool
	failed  bool
	err     error
}

func newLiveModel(problem, backend string, maxIter int) liveModel {
	if maxIter < 1 {
		maxIter = 1
	}
	return liveModel{problem: problem, backend: backend, maxIter: maxIter}
}

func (m liveModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/15, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tickMsg:
		m.frame++
		if m.done {
			return m, tea.Quit
		}
		return m, tick()
	case SolveUpdate:
		m.updates = append(m.updates, msg)
		return m, nil
	case solveDoneMsg:
		m.done = true
		m.failed = msg.err != nil
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m liveModel) View() string {
	var b strings.Builder

	header := Title.Render("solving "+m.problem) + Subtle.Render("  backend: "+m.backend)
	b.WriteString(header)
	b.WriteString("\n\n")

	switch {
	case m.failed:
		b.WriteString(StatusFailed.Render("✗ failed"))
		b.WriteString("\n" + Subtle.Render(m.err.Error()))
	case m.done:
		b.WriteString(StatusSolved.Render("✓ finished"))
	default:
		b.WriteString(StatusRunning.Render(AnimatedSpinner(m.frame) + " running"))
	}
	b.WriteString("\n\n")

	if n := len(m.updates); n > 0 {
		last := m.updates[n-1]
		b.WriteString(MetricLabel.Render("iteration  "))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%d/%d", last.Iter, m.maxIter)))
		b.WriteString("  ")
		b.WriteString(ProgressBar(float64(last.Iter)/float64(m.maxIter), 30))
		b.WriteString("\n")

		b.WriteString(MetricLabel.Render("objective  "))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%.6g", last.Objective)))
		b.WriteString("\n")

		b.WriteString(MetricLabel.Render("violation  "))
		b.WriteString(MetricValue.Render(fmt.Sprintf("%.3e", last.Violation)))
		b.WriteString("  ")
		b.WriteString(SparklineChart(violations(m.updates), 30))
		b.WriteString("\n")
	} else {
		b.WriteString(Subtle.Render("waiting for first iteration..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(KeyHint.Render("q to detach"))
	return Panel.Render(b.String())
}

func violations(updates []SolveUpdate) []float64 {
	out := make([]float64, len(updates))
	for i, u := range updates {
		out[i] = u.Violation
	}
	return out
}

// RunLive executes solve under a live terminal view. The callback it
// hands to solve is safe to invoke from the solver goroutine. The
// solve's result is returned unchanged; view errors do not mask it.
func RunLive(problem, backend string, maxIter int, solve func(cb nlp.IterFunc) (*ocp.Solution, error)) (*ocp.Solution, error) {
	p := tea.NewProgram(newLiveModel(problem, backend, maxIter))

	var (
		sol      *ocp.Solution
		solveErr error
	)
	go func() {
		sol, solveErr = solve(func(iter int, objective, violation, stationarity float64) {
			p.Send(SolveUpdate{Iter: iter, Objective: objective, Violation: violation, Stationarity: stationarity})
		})
		p.Send(solveDoneMsg{err: solveErr})
	}()

	if _, err := p.Run(); err != nil {
		return sol, fmt.Errorf("viz: live view: %w", err)
	}
	return sol, solveErr
}
