package config

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/nn"
	"github.com/born-ml/cloneable/internal/tensor"
)

// Build constructs the configured model as a Sequential.
func Build[B tensor.Backend](cfg ModelConfig, backend B) (*nn.Sequential[B], error) {
	return buildSequential(cfg.Layers, backend)
}

func buildSequential[B tensor.Backend](layers []LayerConfig, backend B) (*nn.Sequential[B], error) {
	modules := make([]nn.Module[B], 0, len(layers))
	for i, l := range layers {
		m, err := buildLayer(l, backend)
		if err != nil {
			return nil, fmt.Errorf("config: layer %d: %w", i, err)
		}
		modules = append(modules, m)
	}
	return nn.NewSequential(modules...), nil
}

func buildLayer[B tensor.Backend](l LayerConfig, backend B) (nn.Module[B], error) {
	switch l.Type {
	case LayerLinear:
		bias := l.Bias == nil || *l.Bias
		return nn.NewLinear(l.In, l.Out, backend, nn.WithBias(bias)), nil
	case LayerReLU:
		return nn.NewReLU[B](), nil
	case LayerLayerNorm:
		return nn.NewLayerNorm(l.Features, l.Eps, backend), nil
	case LayerBatchNorm:
		return nn.NewBatchNorm1D(l.Features, l.Eps, l.Momentum, backend), nil
	case LayerEmbedding:
		return nn.NewEmbedding(l.Num, l.Dim, backend), nil
	case LayerSequential:
		s, err := buildSequential(l.Layers, backend)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown layer type %q", l.Type)
	}
}
