package config

var Presets = map[string]map[string]*Config{
	"fieldline": {
		"circle": {
			Mode:  "fieldline",
			Field: FieldConfig{Type: "toroidal", B0: 1, R0: 1},
			Particle: ParticleConfig{
				Start: [3]float64{1, 0, 0},
			},
			Trace: TraceConfig{
				Tmax: 60, AbsTol: 1e-9, RelTol: 1e-9,
				MaxTransits: 5,
			},
		},
	},
	"gc": {
		"banana": {
			Mode:  "gc",
			Field: FieldConfig{Type: "toroidal", B0: 1, R0: 1},
			Particle: ParticleConfig{
				Mass: DefaultMass, Charge: DefaultCharge,
				Vtotal: 1e5, Vtang: 3e4,
				Start: [3]float64{1, 0, 0},
			},
			Trace: TraceConfig{Tmax: 1e-3, AbsTol: 1e-9, RelTol: 1e-9},
		},
	},
	"gc-boozer": {
		"passing": {
			Mode: "gc-boozer",
			Field: FieldConfig{
				Type: "boozer", B0: 1, G0: 1, Etabar: 0.1, Iota0: 0.42,
			},
			Particle: ParticleConfig{
				Mass: DefaultMass, Charge: DefaultCharge,
				Vtotal: 1e5, Vtang: 8e4,
				Start: [3]float64{0.25, 0, 0},
			},
			Trace: TraceConfig{Tmax: 1e-3, AbsTol: 1e-9, RelTol: 1e-9, Vacuum: true},
		},
		"trapped": {
			Mode: "gc-boozer",
			Field: FieldConfig{
				Type: "boozer", B0: 1, G0: 1, Etabar: 0.1, Iota0: 0.42,
			},
			Particle: ParticleConfig{
				Mass: DefaultMass, Charge: DefaultCharge,
				Vtotal: 1e5, Vtang: 1e4,
				Start: [3]float64{0.25, 3.14159265, 0},
			},
			Trace: TraceConfig{
				Tmax: 1e-3, AbsTol: 1e-9, RelTol: 1e-9, Vacuum: true,
				VPars: []float64{0},
			},
		},
		"loss": {
			Mode: "gc-boozer",
			Field: FieldConfig{
				Type: "boozer", B0: 1, G0: 1, Etabar: 0.1, Iota0: 0.42,
			},
			Particle: ParticleConfig{
				Mass: DefaultMass, Charge: DefaultCharge,
				Vtotal: 1e5, Vtang: 1e4,
				Start: [3]float64{0.6, 3.14159265, 0},
			},
			Trace: TraceConfig{
				Tmax: 1e-2, AbsTol: 1e-9, RelTol: 1e-9, Vacuum: true,
				MaxFlux: 0.99, MinFlux: 0.01,
			},
		},
	},
	"fullorbit": {
		"gyration": {
			Mode:  "fullorbit",
			Field: FieldConfig{Type: "toroidal", B0: 1, R0: 1},
			Particle: ParticleConfig{
				Mass: DefaultMass, Charge: DefaultCharge,
				Vtotal: 1e5, Vtang: 5e4,
				Start: [3]float64{1, 0, 0},
			},
			Trace: TraceConfig{Tmax: 1e-5, AbsTol: 1e-9, RelTol: 1e-9},
		},
	},
}

func GetPreset(mode, preset string) *Config {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	cfg, ok := modePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(mode string) []string {
	modePresets, ok := Presets[mode]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modePresets))
	for name := range modePresets {
		names = append(names, name)
	}
	return names
}
