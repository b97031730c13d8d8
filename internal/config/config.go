package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sominlee1211/simsopt/internal/field"
	"github.com/sominlee1211/simsopt/internal/tracing"
)

const (
	DefaultTmax   = 1e-4
	DefaultAbsTol = 1e-9
	DefaultRelTol = 1e-9
	DefaultMass   = 1.67262192369e-27
	DefaultCharge = 1.602176634e-19
	DefaultVtotal = 1e5
)

type Config struct {
	Mode     string         `yaml:"mode"`
	Field    FieldConfig    `yaml:"field"`
	Particle ParticleConfig `yaml:"particle"`
	Trace    TraceConfig    `yaml:"trace"`
}

type FieldConfig struct {
	Type string `yaml:"type"`

	B0 float64 `yaml:"b0"`
	R0 float64 `yaml:"r0"`

	// Boozer model parameters
	G0           float64 `yaml:"g0"`
	G1           float64 `yaml:"g1"`
	I1           float64 `yaml:"i1"`
	K1           float64 `yaml:"k1"`
	Etabar       float64 `yaml:"etabar"`
	Iota0        float64 `yaml:"iota0"`
	Iota1        float64 `yaml:"iota1"`
	WithCurrents bool    `yaml:"with_currents"`
}

type ParticleConfig struct {
	Mass   float64    `yaml:"mass"`
	Charge float64    `yaml:"charge"`
	Vtotal float64    `yaml:"vtotal"`
	Vtang  float64    `yaml:"vtang"`
	Start  [3]float64 `yaml:"start"`
}

type TraceConfig struct {
	Tmax   float64 `yaml:"tmax"`
	AbsTol float64 `yaml:"abstol"`
	RelTol float64 `yaml:"reltol"`

	Vacuum bool `yaml:"vacuum"`
	NoK    bool `yaml:"no_k"`
	Axis   int  `yaml:"axis"`

	Phis      []float64 `yaml:"phis"`
	PhisStop  bool      `yaml:"phis_stop"`
	VPars     []float64 `yaml:"vpars"`
	VParsStop bool      `yaml:"vpars_stop"`

	MaxFlux     float64 `yaml:"max_flux"`
	MinFlux     float64 `yaml:"min_flux"`
	MaxTransits int     `yaml:"max_transits"`

	ForgetExactPath bool `yaml:"forget_exact_path"`
}

func DefaultConfig() *Config {
	return &Config{
		Mode: "gc-boozer",
		Field: FieldConfig{
			Type:   "boozer",
			B0:     1,
			R0:     1,
			G0:     1,
			Etabar: 0.1,
			Iota0:  0.42,
		},
		Particle: ParticleConfig{
			Mass:   DefaultMass,
			Charge: DefaultCharge,
			Vtotal: DefaultVtotal,
			Vtang:  0.8 * DefaultVtotal,
			Start:  [3]float64{0.25, 0, 0},
		},
		Trace: TraceConfig{
			Tmax:   DefaultTmax,
			AbsTol: DefaultAbsTol,
			RelTol: DefaultRelTol,
			Vacuum: true,
		},
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

// BuildField constructs the real-space field evaluator the config names.
func (c *Config) BuildField() (field.MagneticField, error) {
	switch c.Field.Type {
	case "toroidal":
		return field.NewToroidalField(c.Field.B0, c.Field.R0), nil
	case "uniform":
		return field.NewUniformField(c.Field.B0, [3]float64{0, 0, 1}), nil
	default:
		return nil, fmt.Errorf("config: unknown real-space field type %q", c.Field.Type)
	}
}

// BuildBoozerField constructs the flux-coordinate field evaluator.
func (c *Config) BuildBoozerField() (field.BoozerField, error) {
	if c.Field.Type != "boozer" {
		return nil, fmt.Errorf("config: field type %q is not a Boozer field", c.Field.Type)
	}
	f := field.NewAnalyticBoozerField(c.Field.B0, c.Field.G0, c.Field.Etabar, c.Field.Iota0)
	f.G1 = c.Field.G1
	f.I1 = c.Field.I1
	f.K1 = c.Field.K1
	f.Iota1 = c.Field.Iota1
	f.WithCurrents = c.Field.WithCurrents
	return f, nil
}

// Options assembles the tracing options, including the stopping criteria
// the bounds imply. Criteria are freshly built on every call so runs never
// share criterion state.
func (c *Config) Options() tracing.Options {
	opt := tracing.Options{
		Tmax:            c.Trace.Tmax,
		AbsTol:          c.Trace.AbsTol,
		RelTol:          c.Trace.RelTol,
		Phis:            c.Trace.Phis,
		VPars:           c.Trace.VPars,
		PhisStop:        c.Trace.PhisStop,
		VParsStop:       c.Trace.VParsStop,
		ForgetExactPath: c.Trace.ForgetExactPath,
		AxisMode:        tracing.AxisMode(c.Trace.Axis),
	}
	if c.Trace.MaxFlux > 0 {
		opt.Criteria = append(opt.Criteria, &tracing.MaxToroidalFluxCriterion{Max: c.Trace.MaxFlux})
	}
	if c.Trace.MinFlux > 0 {
		opt.Criteria = append(opt.Criteria, &tracing.MinToroidalFluxCriterion{Min: c.Trace.MinFlux})
	}
	if c.Trace.MaxTransits > 0 {
		opt.Criteria = append(opt.Criteria, &tracing.ToroidalTransitCriterion{
			Max:  c.Trace.MaxTransits,
			Flux: c.Field.Type == "boozer",
		})
	}
	return opt
}
