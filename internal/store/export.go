package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/dtsim/internal/loop"
)

type ExportData struct {
	Plant     string             `json:"plant"`
	Reference string             `json:"reference"`
	Ts        float64            `json:"ts"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Refs      []float64          `json:"refs"`
	Errors    []float64          `json:"errors"`
	Controls  []float64          `json:"controls"`
	Outputs   []float64          `json:"outputs"`
	Metrics   map[string]float64 `json:"metrics"`
}

func ExportJSON(path string, plant, reference string, ts float64, result *loop.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, plant, reference, ts, result)
}

func ExportJSONStdout(plant, reference string, ts float64, result *loop.Result) error {
	return writeJSON(os.Stdout, plant, reference, ts, result)
}

func writeJSON(w io.Writer, plant, reference string, ts float64, result *loop.Result) error {
	data := ExportData{
		Plant:     plant,
		Reference: reference,
		Ts:        ts,
		Steps:     result.Steps,
		Times:     result.Times,
		Refs:      result.Refs,
		Errors:    result.Errors,
		Controls:  result.Controls,
		Outputs:   result.Outputs,
		Metrics:   result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
