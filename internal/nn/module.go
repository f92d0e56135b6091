// Package nn implements the module tree of the Born framework and its deep
// cloning protocol.
//
// A module owns named parameters, named buffers and named child modules,
// all registered from the module's Reset method. Concrete modules embed
// Cloneable instantiated with their own type:
//
//	type Linear[B tensor.Backend] struct {
//	    nn.Cloneable[B, Linear[B]]
//	    ...
//	}
//
// which supplies Clone for the whole tree without the caller knowing the
// concrete type of any node.
package nn

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/born-ml/cloneable/internal/tensor"
)

// Module is the interface implemented by every node of a module tree.
//
// Implementations are obtained by embedding Cloneable; the unexported
// methods keep the set of implementations inside this package's protocol.
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Reset creates every parameter, buffer and child of the module
	// through the Register* methods. It runs on empty registries only:
	// once from the constructor and once on every fresh clone, and must
	// produce the same names each time. Calling it again on a live module
	// panics on the first duplicate name.
	Reset()

	// Clone returns a deep, storage-independent copy of the module tree.
	Clone() (Module[B], error)

	// TypeName returns the concrete module type name, e.g. "Linear".
	TypeName() string

	// NamedParameters returns this module's own parameters.
	NamedParameters() *OrderedDict[*Parameter[B]]
	// NamedBuffers returns this module's own buffers.
	NamedBuffers() *OrderedDict[*tensor.Tensor[float32, B]]
	// NamedChildren returns this module's direct children.
	NamedChildren() *OrderedDict[Module[B]]

	// Parameters returns the parameters of the whole subtree, depth first.
	Parameters() []*Parameter[B]

	// StateDict returns every parameter and buffer of the subtree keyed by
	// dotted path, e.g. "encoder.0.weight".
	StateDict() map[string]*tensor.RawTensor

	// LoadStateDict copies tensors from stateDict into the subtree.
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error

	// ZeroGrad clears the gradients of the subtree.
	ZeroGrad()

	base() *Base[B]
	cloneTree(g *tensor.CopyGroup) (Module[B], error)
	cloneFrom(g *tensor.CopyGroup, other Module[B]) error
}

// Base holds a module's registries. It is embedded through Cloneable and
// is never used on its own.
type Base[B tensor.Backend] struct {
	params   *OrderedDict[*Parameter[B]]
	buffers  *OrderedDict[*tensor.Tensor[float32, B]]
	children *OrderedDict[Module[B]]
}

func (b *Base[B]) base() *Base[B] {
	b.init()
	return b
}

func (b *Base[B]) init() {
	if b.params == nil {
		b.params = newOrderedDict[*Parameter[B]]()
	}
	if b.buffers == nil {
		b.buffers = newOrderedDict[*tensor.Tensor[float32, B]]()
	}
	if b.children == nil {
		b.children = newOrderedDict[Module[B]]()
	}
}

// clearRegistries drops every registration by installing fresh
// collections. The old collections are left untouched because a shallow
// copy shares them with the module it was copied from.
func (b *Base[B]) clearRegistries() {
	b.params = nil
	b.buffers = nil
	b.children = nil
	b.init()
}

// RegisterParameter records t as a trainable parameter called name and
// returns it. Panics if name is empty or already registered.
func (b *Base[B]) RegisterParameter(name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	b.init()
	p := NewParameter(name, t)
	b.params.insert("parameter", name, p)
	return p
}

// RegisterBuffer records t as a non-trainable buffer called name and
// returns it. Panics if name is empty or already registered.
func (b *Base[B]) RegisterBuffer(name string, t *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	b.init()
	b.buffers.insert("buffer", name, t)
	return t
}

// RegisterModule records m as a child called name and returns it.
// Panics if name is empty or already registered.
func (b *Base[B]) RegisterModule(name string, m Module[B]) Module[B] {
	b.init()
	b.children.insert("module", name, m)
	return m
}

// Register is RegisterModule that keeps the child's concrete type:
//
//	l.inner = nn.Register(&l.Base, "inner", nn.NewLinear(4, 2, backend))
func Register[B tensor.Backend, M Module[B]](owner *Base[B], name string, m M) M {
	owner.RegisterModule(name, m)
	return m
}

// NamedParameters returns this module's own parameters in registration order.
func (b *Base[B]) NamedParameters() *OrderedDict[*Parameter[B]] {
	b.init()
	return b.params
}

// NamedBuffers returns this module's own buffers in registration order.
func (b *Base[B]) NamedBuffers() *OrderedDict[*tensor.Tensor[float32, B]] {
	b.init()
	return b.buffers
}

// NamedChildren returns this module's direct children in registration order.
func (b *Base[B]) NamedChildren() *OrderedDict[Module[B]] {
	b.init()
	return b.children
}

// Parameters returns the parameters of the subtree: own parameters first,
// then each child's, in registration order.
func (b *Base[B]) Parameters() []*Parameter[B] {
	b.init()
	params := b.params.Values()
	for _, child := range b.children.vals {
		params = append(params, child.Parameters()...)
	}
	return params
}

// ZeroGrad clears the gradients of the subtree.
func (b *Base[B]) ZeroGrad() {
	for _, p := range b.Parameters() {
		p.ZeroGrad()
	}
}

// StateDict returns parameters and buffers of the subtree keyed by dotted
// path. The tensors are shared, not copied.
func (b *Base[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	b.collectState("", stateDict)
	return stateDict
}

func (b *Base[B]) collectState(prefix string, out map[string]*tensor.RawTensor) {
	b.init()
	for name, p := range b.params.All() {
		out[joinPrefix(prefix, name)] = p.Tensor().Raw()
	}
	for name, buf := range b.buffers.All() {
		out[joinPrefix(prefix, name)] = buf.Raw()
	}
	for name, child := range b.children.All() {
		child.base().collectState(joinPrefix(prefix, name), out)
	}
}

// LoadStateDict copies every entry of stateDict into the parameter or
// buffer with the same dotted path. Missing keys, unexpected keys and
// shape or dtype mismatches are all reported together.
func (b *Base[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	targets := make(map[string]*tensor.RawTensor)
	b.collectState("", targets)

	var errs error
	for _, key := range sortedKeys(targets) {
		src, ok := stateDict[key]
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("nn: missing key %q in state dict", key))
			continue
		}
		if err := targets[key].CopyFrom(src); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("nn: loading %q: %w", key, err))
		}
	}
	for _, key := range sortedKeys(stateDict) {
		if _, ok := targets[key]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("nn: unexpected key %q in state dict", key))
		}
	}
	return errs
}

func joinPrefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
