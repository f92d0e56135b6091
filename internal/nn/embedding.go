package nn

import (
	"fmt"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Embedding is a lookup table that maps discrete indices to dense vectors.
//
// Architecture:
//   - Weight: [NumEmbed, EmbedDim] learnable parameter
//   - Forward: indices [batch, seq] -> embeddings [batch, seq, EmbedDim]
//
// Forward takes the indices as a float32 tensor holding whole numbers so
// that Embedding fits the Module interface; use Lookup for integer indices.
//
// Example:
//
//	embed := nn.NewEmbedding(10000, 256, backend)
//	ids, _ := tensor.FromSlice([]int32{1, 2, 3}, tensor.Shape{1, 3}, backend)
//	vectors := embed.Lookup(ids) // [1, 3, 256]
type Embedding[B tensor.Backend] struct {
	Cloneable[B, Embedding[B]]

	numEmbed int
	embedDim int
	backend  B

	weight *Parameter[B]
}

// NewEmbedding creates a new Embedding layer with weights drawn from N(0, 1).
func NewEmbedding[B tensor.Backend](numEmbeddings, embeddingDim int, backend B) *Embedding[B] {
	if numEmbeddings <= 0 || embeddingDim <= 0 {
		panic(fmt.Sprintf("nn: Embedding sizes must be positive, got %dx%d", numEmbeddings, embeddingDim))
	}

	e := &Embedding[B]{
		numEmbed: numEmbeddings,
		embedDim: embeddingDim,
		backend:  backend,
	}
	e.Bind(e)
	e.Reset()
	return e
}

// Reset allocates a fresh weight table.
func (e *Embedding[B]) Reset() {
	e.weight = e.RegisterParameter("weight", Randn(tensor.Shape{e.numEmbed, e.embedDim}, e.backend))
}

// Lookup gathers the embedding rows for integer indices.
func (e *Embedding[B]) Lookup(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	return tensor.New[float32, B](e.backend.Embedding(e.weight.Tensor().Raw(), indices.Raw()), e.backend)
}

// Forward gathers the embedding rows for indices stored as float32.
func (e *Embedding[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	ids := tensor.Zeros[int32](input.Shape(), e.backend)
	out := ids.Data()
	for i, v := range input.Data() {
		out[i] = int32(v)
	}
	return e.Lookup(ids)
}

// Weight returns the embedding table parameter.
func (e *Embedding[B]) Weight() *Parameter[B] {
	return e.weight
}

// NumEmbeddings returns the vocabulary size.
func (e *Embedding[B]) NumEmbeddings() int {
	return e.numEmbed
}

// EmbeddingDim returns the vector size.
func (e *Embedding[B]) EmbeddingDim() int {
	return e.embedDim
}
