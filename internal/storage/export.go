package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/trajopt/internal/ocp"
)

type ExportData struct {
	Problem   string             `json:"problem"`
	Scheme    string             `json:"scheme"`
	Backend   string             `json:"backend"`
	Intervals int                `json:"intervals"`
	Points    int                `json:"points"`
	Times     []float64          `json:"times"`
	States    [][]float64        `json:"states"`
	Controls  [][]float64        `json:"controls"`
	Stats     map[string]float64 `json:"stats"`
}

// ExportJSON writes a solved run to path as indented JSON; states and
// controls are row-per-grid-point.
func ExportJSON(path, problem, scheme, backend string, intervals int, sol *ocp.Solution) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportJSON(file, problem, scheme, backend, intervals, sol)
}

// ExportJSONStdout writes the same document to standard output.
func ExportJSONStdout(problem, scheme, backend string, intervals int, sol *ocp.Solution) error {
	return exportJSON(os.Stdout, problem, scheme, backend, intervals, sol)
}

func exportJSON(w io.Writer, problem, scheme, backend string, intervals int, sol *ocp.Solution) error {
	data := ExportData{
		Problem:   problem,
		Scheme:    scheme,
		Backend:   backend,
		Intervals: intervals,
		Points:    len(sol.Times),
		Times:     sol.Times,
		States:    columnsToRows(sol.Variables[ocp.States], len(sol.Times)),
		Controls:  columnsToRows(sol.Variables[ocp.Controls], len(sol.Times)),
		Stats:     numericStats(sol.Stats),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func columnsToRows(m *ocp.Matrix[float64], n int) [][]float64 {
	out := make([][]float64, n)
	for c := 0; c < n; c++ {
		if m == nil {
			out[c] = []float64{}
			continue
		}
		row := make([]float64, m.Rows())
		for r := range row {
			row[r] = m.At(r, c)
		}
		out[c] = row
	}
	return out
}
