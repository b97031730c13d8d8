package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/sominlee1211/simsopt/internal/tracing"
)

type ExportData struct {
	Mode    string      `json:"mode"`
	Field   string      `json:"field"`
	Tmax    float64     `json:"tmax"`
	Times   []float64   `json:"times"`
	States  [][]float64 `json:"states"`
	Hits    []ExportHit `json:"hits"`
}

type ExportHit struct {
	Time  float64   `json:"time"`
	Kind  int       `json:"kind"`
	State []float64 `json:"state"`
}

func exportData(mode, fieldType string, tmax float64, result *tracing.Result) ExportData {
	data := ExportData{
		Mode:   mode,
		Field:  fieldType,
		Tmax:   tmax,
		Times:  make([]float64, len(result.Samples)),
		States: make([][]float64, len(result.Samples)),
		Hits:   make([]ExportHit, len(result.Hits)),
	}
	for i, s := range result.Samples {
		data.Times[i] = s.T
		data.States[i] = s.Y
	}
	for i, h := range result.Hits {
		data.Hits[i] = ExportHit{Time: h.T, Kind: h.Kind, State: h.Y}
	}
	return data
}

func ExportJSON(path, mode, fieldType string, tmax float64, result *tracing.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, mode, fieldType, tmax, result)
}

func ExportJSONStdout(mode, fieldType string, tmax float64, result *tracing.Result) error {
	return writeExport(os.Stdout, mode, fieldType, tmax, result)
}

func writeExport(w io.Writer, mode, fieldType string, tmax float64, result *tracing.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportData(mode, fieldType, tmax, result))
}
