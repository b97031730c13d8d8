package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sominlee1211/simsopt/internal/tracing"
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
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Field     string    `json:"field"`
	Timestamp time.Time `json:"timestamp"`
	Tmax      float64   `json:"tmax"`
	AbsTol    float64   `json:"abstol"`
	RelTol    float64   `json:"reltol"`
	Samples   int       `json:"samples"`
	Hits      int       `json:"hits"`
}

// Save writes a trace result under a fresh run directory: metadata.json,
// samples.csv with one row per trajectory sample and hits.csv with one row
// per detected event.
func (s *Store) Save(mode, fieldType string, tmax, abstol, reltol float64, result *tracing.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", mode, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Mode:      mode,
		Field:     fieldType,
		Timestamp: time.Now(),
		Tmax:      tmax,
		AbsTol:    abstol,
		RelTol:    reltol,
		Samples:   len(result.Samples),
		Hits:      len(result.Hits),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeSamples(filepath.Join(runDir, "samples.csv"), result.Samples); err != nil {
		return "", err
	}
	if err := writeHits(filepath.Join(runDir, "hits.csv"), result.Hits); err != nil {
		return "", err
	}
	return runID, nil
}

func writeSamples(path string, samples []tracing.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(samples) == 0 {
		return nil
	}

	header := []string{"time"}
	for i := range samples[0].Y {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, sm := range samples {
		row := make([]string, 0, len(sm.Y)+1)
		row = append(row, formatFloat(sm.T))
		for _, v := range sm.Y {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeHits(path string, hits []tracing.Event) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(hits) == 0 {
		return nil
	}

	header := []string{"time", "kind"}
	for i := range hits[0].Y {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, hit := range hits {
		row := make([]string, 0, len(hit.Y)+2)
		row = append(row, formatFloat(hit.T), strconv.Itoa(hit.Kind))
		for _, v := range hit.Y {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// event times span nanoseconds to seconds, so fixed-width fixed-point
// formatting would truncate the short ones
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
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
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadResult reads the samples and hits of a stored run back into a trace
// result.
func (s *Store) LoadResult(runID string) (*tracing.Result, error) {
	runDir := filepath.Join(s.baseDir, runID)
	res := &tracing.Result{}

	samples, err := readCSV(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range samples {
		if len(row) < 2 {
			continue
		}
		res.Samples = append(res.Samples, tracing.Sample{T: row[0], Y: tracing.State(row[1:])})
	}

	hits, err := readCSV(filepath.Join(runDir, "hits.csv"))
	if err != nil {
		return nil, err
	}
	for _, row := range hits {
		if len(row) < 3 {
			continue
		}
		res.Hits = append(res.Hits, tracing.Event{
			T:    row[0],
			Kind: int(row[1]),
			Y:    tracing.State(row[2:]),
		})
	}
	return res, nil
}

func readCSV(path string) ([][]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, 0, len(record))
		for _, f := range record {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
