// Package config implements the model configuration file.
//
//	model:
//	  name: mlp
//	  layers:
//	    - type: linear
//	      in: 4
//	      out: 8
//	    - type: relu
//	    - type: batchnorm
//	      features: 8
//	    - type: linear
//	      in: 8
//	      out: 2
//	      bias: false
//
// Files are read with viper, so YAML, JSON and TOML all work.
package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Layer types.
const (
	LayerLinear     = "linear"
	LayerReLU       = "relu"
	LayerLayerNorm  = "layernorm"
	LayerBatchNorm  = "batchnorm"
	LayerEmbedding  = "embedding"
	LayerSequential = "sequential"
)

// Defaults applied to unset normalization settings.
const (
	DefaultEpsilon  float32 = 1e-5
	DefaultMomentum float32 = 0.1
)

// Config is the model configuration file.
type Config struct {
	// Model to build.
	Model ModelConfig `yaml:"model"`
}

// ModelConfig describes a model as a sequence of layers.
type ModelConfig struct {
	// Name of the model, for display only.
	Name string `yaml:"name,omitempty"`
	// Layers, applied in order.
	Layers []LayerConfig `yaml:"layers"`
}

// LayerConfig describes a single layer. Which fields apply depends on Type.
type LayerConfig struct {
	// Type is one of the Layer* constants.
	Type string `yaml:"type"`

	// Linear input and output features.
	In  int `yaml:"in,omitempty"`
	Out int `yaml:"out,omitempty"`
	// Linear bias term (default true).
	Bias *bool `yaml:"bias,omitempty"`

	// Normalized features of layernorm and batchnorm.
	Features int `yaml:"features,omitempty"`
	// Normalization epsilon (default DefaultEpsilon).
	Eps float32 `yaml:"eps,omitempty"`
	// Batchnorm running statistics momentum (default DefaultMomentum).
	Momentum float32 `yaml:"momentum,omitempty"`

	// Embedding table size.
	Num int `yaml:"num,omitempty"`
	Dim int `yaml:"dim,omitempty"`

	// Nested layers of a sequential.
	Layers []LayerConfig `yaml:"layers,omitempty"`
}

// Load reads the model configuration from path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return FromViper(v)
}

// FromViper decodes the "model" section held by v. Other top-level keys,
// such as the command line's log settings, are ignored; unknown keys inside
// the model section are rejected.
func FromViper(v *viper.Viper) (*Config, error) {
	if !v.IsSet("model") {
		return nil, fmt.Errorf("config: no model section")
	}

	var cfg Config
	err := v.UnmarshalKey("model", &cfg.Model, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.ErrorUnused = true
	})
	if err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	var walk func(layers []LayerConfig)
	walk = func(layers []LayerConfig) {
		for i := range layers {
			l := &layers[i]
			if l.Eps == 0 {
				l.Eps = DefaultEpsilon
			}
			if l.Momentum == 0 {
				l.Momentum = DefaultMomentum
			}
			if l.Bias == nil {
				bias := true
				l.Bias = &bias
			}
			walk(l.Layers)
		}
	}
	walk(c.Model.Layers)
}

// Validate checks every layer and reports all problems at once.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if len(c.Model.Layers) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("config: model has no layers"))
	}
	validateLayers("model.layers", c.Model.Layers, &errs)
	return errs.ErrorOrNil()
}

func validateLayers(path string, layers []LayerConfig, errs **multierror.Error) {
	for i, l := range layers {
		at := fmt.Sprintf("%s[%d]", path, i)
		positive := func(field string, v int) {
			if v <= 0 {
				*errs = multierror.Append(*errs, fmt.Errorf("config: %s (%s): %s must be positive", at, l.Type, field))
			}
		}

		switch l.Type {
		case LayerLinear:
			positive("in", l.In)
			positive("out", l.Out)
		case LayerReLU:
		case LayerLayerNorm, LayerBatchNorm:
			positive("features", l.Features)
		case LayerEmbedding:
			positive("num", l.Num)
			positive("dim", l.Dim)
		case LayerSequential:
			validateLayers(at+".layers", l.Layers, errs)
		default:
			*errs = multierror.Append(*errs, fmt.Errorf("config: %s: unknown layer type %q", at, l.Type))
		}
	}
}
