package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/trajopt/internal/ocp"
)

// PlotTrajectory charts each state and control row of a solution
// against the grid, one plot per row.
func PlotTrajectory(sol *ocp.Solution, height, width int) string {
	var out strings.Builder

	plotRows := func(m *ocp.Matrix[float64], label string) {
		if m == nil {
			return
		}
		for r := 0; r < m.Rows(); r++ {
			data := make([]float64, m.Cols())
			for c := range data {
				data[c] = m.At(r, c)
			}
			graph := asciigraph.Plot(data,
				asciigraph.Height(height),
				asciigraph.Width(width),
				asciigraph.Caption(fmt.Sprintf("%s%d vs grid point", label, r)),
			)
			out.WriteString(graph)
			out.WriteString("\n\n")
		}
	}
	plotRows(sol.Variables[ocp.States], "x")
	plotRows(sol.Variables[ocp.Controls], "u")
	return out.String()
}

// PlotSeries charts one captioned series.
func PlotSeries(data []float64, caption string, height, width int) string {
	if len(data) == 0 {
		return Subtle.Render("no data")
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// PlotConvergence charts the recorded objective history of a solve.
func PlotConvergence(objectives []float64, height, width int) string {
	return PlotSeries(objectives, "objective per iteration", height, width)
}
