package seqlab

import (
	"os"

	"github.com/unixpickle/essentials"
	"gopkg.in/yaml.v3"
)

// A TrainConfig holds the hyper-parameters for a training
// run. Zero values are never meaningful; start from one of
// the Default*Config constructors and override fields.
type TrainConfig struct {
	StepSize  float64 `yaml:"step_size"`
	BatchSize int     `yaml:"batch_size"`
	Iters     int     `yaml:"iters"`
	LogEvery  int     `yaml:"log_every"`

	EmbedDim   int `yaml:"embed_dim"`
	HiddenSize int `yaml:"hidden_size"`
	CharHidden int `yaml:"char_hidden"`

	// KeepProb is the dropout keep probability (1 disables
	// dropout).
	KeepProb float64 `yaml:"keep_prob"`

	// Validation is the fraction of samples held out for
	// validation (0 disables the split).
	Validation float64 `yaml:"validation"`
}

// DefaultTaggerConfig returns the hyper-parameters used for
// the toy part-of-speech taggers.
func DefaultTaggerConfig() TrainConfig {
	return TrainConfig{
		StepSize:   0.1,
		BatchSize:  2,
		Iters:      300,
		LogEvery:   50,
		EmbedDim:   6,
		HiddenSize: 6,
		CharHidden: 3,
		KeepProb:   1,
	}
}

// DefaultNameGenConfig returns the hyper-parameters used for
// the name generator.
func DefaultNameGenConfig() TrainConfig {
	return TrainConfig{
		StepSize:   0.0005,
		BatchSize:  1,
		Iters:      100000,
		LogEvery:   5000,
		HiddenSize: 128,
		KeepProb:   0.9,
		Validation: 0.1,
	}
}

// LoadConfig overlays a YAML file onto cfg. Fields absent
// from the file keep their current values.
func LoadConfig(path string, cfg *TrainConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return essentials.AddCtx("load config", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return essentials.AddCtx("load config", err)
	}
	return nil
}
