// Package store persists closed-loop runs as a directory per run with
// JSON metadata and a CSV of the sampled trajectories.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/dtsim/internal/loop"
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
	Plant     string             `json:"plant"`
	Reference string             `json:"reference"`
	Timestamp time.Time          `json:"timestamp"`
	Ts        float64            `json:"ts"`
	Steps     int                `json:"steps"`
	Kp        float64            `json:"kp"`
	Ki        float64            `json:"ki"`
	Kd        float64            `json:"kd"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(plant, reference string, ts, kp, ki, kd float64, result *loop.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", plant, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Plant:     plant,
		Reference: reference,
		Timestamp: time.Now(),
		Ts:        ts,
		Steps:     result.Steps,
		Kp:        kp,
		Ki:        ki,
		Kd:        kd,
		Metrics:   result.Metrics,
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

	csvPath := filepath.Join(runDir, "samples.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"k", "time", "r", "e", "u", "y"}); err != nil {
		return "", err
	}

	for i := range result.Times {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(result.Times[i], 'f', 6, 64),
			strconv.FormatFloat(result.Refs[i], 'f', 6, 64),
			strconv.FormatFloat(result.Errors[i], 'f', 6, 64),
			strconv.FormatFloat(result.Controls[i], 'f', 6, 64),
			strconv.FormatFloat(result.Outputs[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
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

// LoadSamples reads a run's trajectories back into a Result. The metrics
// map comes from metadata, not the CSV.
func (s *Store) LoadSamples(runID string) (*loop.Result, error) {
	csvPath := filepath.Join(s.baseDir, runID, "samples.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	result := &loop.Result{Metrics: make(map[string]float64)}
	if len(records) < 2 {
		return result, nil
	}

	for _, record := range records[1:] {
		if len(record) < 6 {
			continue
		}
		vals := make([]float64, 5)
		ok := true
		for j := 1; j < 6; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j-1] = v
		}
		if !ok {
			continue
		}

		result.Times = append(result.Times, vals[0])
		result.Refs = append(result.Refs, vals[1])
		result.Errors = append(result.Errors, vals[2])
		result.Controls = append(result.Controls, vals[3])
		result.Outputs = append(result.Outputs, vals[4])
		result.Steps++
	}

	if meta, err := s.Load(runID); err == nil {
		result.Metrics = meta.Metrics
	}

	return result, nil
}
