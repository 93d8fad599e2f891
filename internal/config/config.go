package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dtsim/internal/converter"
	"github.com/san-kum/dtsim/internal/dsys"
	"github.com/san-kum/dtsim/internal/loop"
	"github.com/san-kum/dtsim/internal/plant"
	"github.com/san-kum/dtsim/internal/refsignal"
	"github.com/san-kum/dtsim/internal/regulator"
)

const (
	DefaultTs    = 0.01
	DefaultSteps = 1000
	DefaultKp    = 0.5
	DefaultKi    = 5.0
	DefaultKd    = 0.0
)

type Config struct {
	Ts        float64         `yaml:"ts"`
	Steps     int             `yaml:"steps"`
	Capacity  int             `yaml:"capacity"`
	Plant     PlantConfig     `yaml:"plant"`
	PID       PIDConfig       `yaml:"pid"`
	Reference ReferenceConfig `yaml:"reference"`
}

type PlantConfig struct {
	Kind string `yaml:"kind"`

	// Transfer function coefficients, most recent first.
	B []float64 `yaml:"b,omitempty"`
	A []float64 `yaml:"a,omitempty"`

	// State-space matrices.
	StateA [][]float64 `yaml:"state_a,omitempty"`
	StateB []float64   `yaml:"state_b,omitempty"`
	StateC []float64   `yaml:"state_c,omitempty"`
	StateD float64     `yaml:"state_d,omitempty"`
}

type PIDConfig struct {
	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`
}

type ReferenceConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	StepTime  float64 `yaml:"step_time,omitempty"`
	Slope     float64 `yaml:"slope,omitempty"`
	StartTime float64 `yaml:"start_time,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty"`
	Phase     float64 `yaml:"phase,omitempty"`
	Offset    float64 `yaml:"offset,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Ts:       DefaultTs,
		Steps:    DefaultSteps,
		Capacity: dsys.LoopCapacity,
		Plant:    PlantConfig{Kind: "motor"},
		PID: PIDConfig{
			Kp: DefaultKp,
			Ki: DefaultKi,
			Kd: DefaultKd,
		},
		Reference: ReferenceConfig{Kind: "step", Amplitude: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildPlant constructs the plant the config describes.
func (c *Config) BuildPlant() (loop.Plant, error) {
	switch c.Plant.Kind {
	case "motor", "":
		return plant.NewMotor(c.Ts)
	case "transfer":
		return plant.NewTransferFunction(c.Plant.B, c.Plant.A, c.Ts, c.Capacity)
	case "statespace":
		return plant.NewStateSpace(c.Plant.StateA, c.Plant.StateB, c.Plant.StateC, c.Plant.StateD, c.Ts, c.Capacity)
	default:
		return nil, fmt.Errorf("unknown plant kind %q", c.Plant.Kind)
	}
}

// BuildReference constructs the reference signal the config describes.
func (c *Config) BuildReference() (*refsignal.Signal, error) {
	var w refsignal.Waveform
	switch c.Reference.Kind {
	case "step", "":
		w = refsignal.Step{Amplitude: c.Reference.Amplitude, StepTime: c.Reference.StepTime}
	case "ramp":
		w = refsignal.Ramp{Slope: c.Reference.Slope, StartTime: c.Reference.StartTime}
	case "sine":
		w = refsignal.Sine{Amplitude: c.Reference.Amplitude, Freq: c.Reference.Frequency, Phase: c.Reference.Phase}
	default:
		return nil, fmt.Errorf("unknown reference kind %q", c.Reference.Kind)
	}
	return refsignal.New(w, c.Ts, c.Reference.Offset, c.Capacity)
}

// BuildLoop assembles the full closed loop the config describes.
func (c *Config) BuildLoop() (*loop.Loop, error) {
	if c.Capacity <= 0 {
		c.Capacity = dsys.LoopCapacity
	}

	ref, err := c.BuildReference()
	if err != nil {
		return nil, err
	}
	pid, err := regulator.NewPID(c.PID.Kp, c.PID.Ki, c.PID.Kd, c.Ts, c.Capacity)
	if err != nil {
		return nil, err
	}
	dac, err := converter.NewDAC(c.Ts)
	if err != nil {
		return nil, err
	}
	pl, err := c.BuildPlant()
	if err != nil {
		return nil, err
	}
	adc, err := converter.NewADC(c.Ts)
	if err != nil {
		return nil, err
	}

	return loop.New(ref, pid, dac, pl, adc)
}
