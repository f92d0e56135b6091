package common

import (
	"github.com/spf13/viper"

	"github.com/born-ml/cloneable/internal/backend/cpu"
	"github.com/born-ml/cloneable/internal/config"
	"github.com/born-ml/cloneable/internal/nn"
)

// Backend is the backend every command runs on.
type Backend = *cpu.CPUBackend

// Model is a model built from the config file.
type Model = nn.Sequential[Backend]

// LoadModel builds the model described by the model section of the config
// file.
func LoadModel() (*config.Config, *Model, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	model, err := config.Build(cfg.Model, cpu.New())
	if err != nil {
		return nil, nil, err
	}
	return cfg, model, nil
}
