package config

var Presets = map[string]map[string]*Config{
	"motor": {
		"step": {
			Ts: 0.01, Steps: 1000,
			Plant:     PlantConfig{Kind: "motor"},
			PID:       PIDConfig{Kp: 0.5, Ki: 5.0},
			Reference: ReferenceConfig{Kind: "step", Amplitude: 1.0},
		},
		"sine-track": {
			Ts: 0.01, Steps: 2000,
			Plant:     PlantConfig{Kind: "motor"},
			PID:       PIDConfig{Kp: 1.0, Ki: 8.0, Kd: 0.01},
			Reference: ReferenceConfig{Kind: "sine", Amplitude: 1.0, Frequency: 0.25},
		},
		"aggressive": {
			Ts: 0.01, Steps: 500,
			Plant:     PlantConfig{Kind: "motor"},
			PID:       PIDConfig{Kp: 2.0, Ki: 20.0, Kd: 0.02},
			Reference: ReferenceConfig{Kind: "step", Amplitude: 1.0},
		},
	},
	"lag": {
		"ramp": {
			Ts: 0.05, Steps: 600,
			Plant:     PlantConfig{Kind: "transfer", B: []float64{0.1}, A: []float64{1.0, -0.9}},
			PID:       PIDConfig{Kp: 1.0, Ki: 2.0},
			Reference: ReferenceConfig{Kind: "ramp", Slope: 0.5},
		},
		"offset-step": {
			Ts: 0.05, Steps: 400,
			Plant:     PlantConfig{Kind: "transfer", B: []float64{0.1}, A: []float64{1.0, -0.9}},
			PID:       PIDConfig{Kp: 0.8, Ki: 1.5},
			Reference: ReferenceConfig{Kind: "step", Amplitude: 2.0, StepTime: 2.0, Offset: 0.5},
		},
	},
	"statespace": {
		"first-order": {
			Ts: 0.01, Steps: 1000,
			Plant: PlantConfig{
				Kind:   "statespace",
				StateA: [][]float64{{0.9802}},
				StateB: []float64{1.0},
				StateC: []float64{0.0198},
				StateD: 0.0,
			},
			PID:       PIDConfig{Kp: 0.5, Ki: 5.0},
			Reference: ReferenceConfig{Kind: "step", Amplitude: 1.0},
		},
	},
}

func GetPreset(plant, preset string) *Config {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	cfg, ok := plantPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(plant string) []string {
	plantPresets, ok := Presets[plant]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(plantPresets))
	for name := range plantPresets {
		names = append(names, name)
	}
	return names
}
