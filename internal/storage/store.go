package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/trajopt/internal/ocp"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Problem   string             `json:"problem"`
	Scheme    string             `json:"scheme"`
	Intervals int                `json:"intervals"`
	Backend   string             `json:"backend"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Stats     map[string]float64 `json:"stats"`
}

// Save writes one solved run: metadata.json plus trajectory.csv with a
// row per grid point.
func (s *Store) Save(problem, scheme string, intervals int, backend string, seed int64, sol *ocp.Solution) (string, error) {
	runID := fmt.Sprintf("%s_%d", problem, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Problem:   problem,
		Scheme:    scheme,
		Intervals: intervals,
		Backend:   backend,
		Timestamp: time.Now(),
		Seed:      seed,
		Stats:     numericStats(sol.Stats),
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "trajectory.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeTrajectory(csvFile, sol); err != nil {
		return "", err
	}
	return runID, nil
}

func writeTrajectory(f *os.File, sol *ocp.Solution) error {
	w := csv.NewWriter(f)
	defer w.Flush()

	states := sol.Variables[ocp.States]
	controls := sol.Variables[ocp.Controls]

	header := []string{"time"}
	if states != nil {
		for r := 0; r < states.Rows(); r++ {
			header = append(header, fmt.Sprintf("x%d", r))
		}
	}
	if controls != nil {
		for r := 0; r < controls.Rows(); r++ {
			header = append(header, fmt.Sprintf("u%d", r))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for c, t := range sol.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		if states != nil {
			for r := 0; r < states.Rows(); r++ {
				row = append(row, strconv.FormatFloat(states.At(r, c), 'f', 6, 64))
			}
		}
		if controls != nil {
			for r := 0; r < controls.Rows(); r++ {
				row = append(row, strconv.FormatFloat(controls.At(r, c), 'f', 6, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// numericStats keeps the float-valued backend diagnostics; strings and
// booleans do not belong in the metric map.
func numericStats(stats map[string]any) map[string]float64 {
	out := make(map[string]float64)
	for k, v := range stats {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		case int64:
			out[k] = float64(n)
		}
	}
	return out
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrajectory reads a saved run back as times plus one row of data
// columns per grid point.
func (s *Store) LoadTrajectory(runID string) ([][]float64, []float64, error) {
	csvPath := filepath.Join(s.baseDir, runID, "trajectory.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		row := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return rows, times, nil
}
