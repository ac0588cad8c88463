package scheduler

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/limaJavier/timetabling-ga/pkg/genetic"
	"github.com/limaJavier/timetabling-ga/pkg/model"
	"gopkg.in/yaml.v3"
)

type Config struct {
	genetic.Config `yaml:",inline" mapstructure:",squash"`

	Seed        *uint64           `json:"seed,omitempty" yaml:"seed,omitempty" mapstructure:"seed"`                // Random when nil, reported back in Result.Seed
	TimeBudget  time.Duration     `json:"timeBudget" yaml:"timeBudget" mapstructure:"timeBudget" validate:"gte=0"` // Zero means no wall-clock limit
	GreedySeeds int               `json:"greedySeeds" yaml:"greedySeeds" mapstructure:"greedySeeds" validate:"gte=0"`
	Weights     model.Weights     `json:"weights" yaml:"weights" mapstructure:"weights"`
	Preferences model.Preferences `json:"preferences" yaml:"preferences" mapstructure:"preferences"`
}

func DefaultConfig() Config {
	return Config{
		Config:      genetic.DefaultConfig(),
		GreedySeeds: 5,
		Weights:     model.DefaultWeights(),
		Preferences: model.DefaultPreferences(),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (config Config) Validate() error {
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid scheduler configuration: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig, so omitted keys keep their defaults
func LoadConfig(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return Config{}, fmt.Errorf("cannot parse configuration file \"%v\": %w", file, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
