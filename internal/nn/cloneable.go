package nn

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/born-ml/cloneable/internal/logging"
	"github.com/born-ml/cloneable/internal/metrics"
	"github.com/born-ml/cloneable/internal/tensor"
)

var logger = logging.GetLogger("nn")

// Cloneable supplies Clone to a concrete module type D.
//
// Module holders only see Module[B], so Clone cannot know what to allocate
// unless the concrete type is carried along. Cloneable carries it as a type
// parameter: every concrete module embeds Cloneable instantiated with its
// own type and binds it to itself in the constructor.
//
//	type Linear[B tensor.Backend] struct {
//	    nn.Cloneable[B, Linear[B]]
//	    weight *nn.Parameter[B]
//	}
//
//	func NewLinear[B tensor.Backend](...) *Linear[B] {
//	    l := &Linear[B]{...}
//	    l.Bind(l)
//	    l.Reset()
//	    return l
//	}
//
// Reset must register every parameter, buffer and child; Clone relies on it
// to rebuild them on the copy and verifies the result against the original.
type Cloneable[B tensor.Backend, D any] struct {
	Base[B]
	self *D
}

// Bind ties the mixin to the module that embeds it. It must be called with
// the embedding module before Reset or Clone.
func (c *Cloneable[B, D]) Bind(self *D) {
	c.self = self
}

// TypeName returns the name of D without type arguments, e.g. "Linear".
func (c *Cloneable[B, D]) TypeName() string {
	name := reflect.TypeFor[D]().Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

// Clone performs a recursive deep copy of the module. The result has the
// same parameter, buffer and child names as the original, every tensor is
// backed by its own storage, and every child is itself a clone.
//
// The copy is made by copying D by value, discarding the copied
// registries and calling Reset on it. Clone fails with a
// *StructuralMismatchError if Reset did not rebuild the original's
// registries, and with a *TypeMismatchError if a child's clone does not
// have the type of the child Reset created. No data is copied on a
// structural failure, and the original is never modified.
//
// Tensor data of the whole tree is copied with non-blocking copies that
// are all completed before Clone returns.
func (c *Cloneable[B, D]) Clone() (Module[B], error) {
	return cloneRoot(c.TypeName(), func(g *tensor.CopyGroup) (Module[B], error) {
		m, err := c.module()
		if err != nil {
			return nil, err
		}
		return m.cloneTree(g)
	})
}

// cloneRoot runs tree, the clone of a whole module tree, waits for the
// copies it queued on g and records the outcome once for the tree.
func cloneRoot[B tensor.Backend](module string, tree func(g *tensor.CopyGroup) (Module[B], error)) (Module[B], error) {
	start := time.Now()

	var g tensor.CopyGroup
	cp, err := tree(&g)
	if werr := g.Wait(); werr != nil && err == nil {
		err = fmt.Errorf("nn: cloning %s: %w", module, werr)
	}

	if err != nil {
		metrics.ObserveClone(module, time.Since(start), 0, failureReason(err))
		logger.Error("clone failed",
			"module", module,
			"err", err,
		)
		return nil, err
	}

	metrics.ObserveClone(module, time.Since(start), g.Bytes(), "")
	logger.Debug("cloned module",
		"module", module,
		"parameters", cp.NamedParameters().Len(),
		"buffers", cp.NamedBuffers().Len(),
		"children", cp.NamedChildren().Len(),
		"bytes", g.Bytes(),
	)
	return cp, nil
}

// module returns the module c is bound to.
func (c *Cloneable[B, D]) module() (Module[B], error) {
	if c.self == nil {
		return nil, ErrUnbound
	}
	m, ok := any(c.self).(Module[B])
	if !ok {
		return nil, fmt.Errorf("nn: %T does not implement Module", c.self)
	}
	return m, nil
}

// cloneTree builds the clone of the bound module and its children, queuing
// tensor copies on g. The copies are only complete after g.Wait.
func (c *Cloneable[B, D]) cloneTree(g *tensor.CopyGroup) (Module[B], error) {
	orig, err := c.module()
	if err != nil {
		return nil, err
	}

	cp := new(D)
	*cp = *c.self
	binder, ok := any(cp).(interface{ Bind(*D) })
	if !ok {
		return nil, fmt.Errorf("nn: %T does not embed Cloneable of its own type", cp)
	}
	binder.Bind(cp)
	copyMod := any(cp).(Module[B])

	dst := copyMod.base()
	dst.clearRegistries()
	copyMod.Reset()

	src := orig.base()
	if err := verifyRebuilt(c.TypeName(), src, dst); err != nil {
		return nil, err
	}
	if err := copyTensors(c.TypeName(), g, src, dst); err != nil {
		return nil, err
	}

	for name, child := range src.children.All() {
		target, _ := dst.children.Get(name)
		if err := target.cloneFrom(g, child); err != nil {
			return nil, fmt.Errorf("nn: cloning child %q of %s: %w", name, c.TypeName(), err)
		}
	}
	return copyMod, nil
}

// cloneFrom clones other and moves the result into the module c is bound to.
// It is called on the children Reset created on a copy, with the original
// child registered under the same name.
func (c *Cloneable[B, D]) cloneFrom(g *tensor.CopyGroup, other Module[B]) error {
	self := c.self
	if self == nil {
		return ErrUnbound
	}

	cloned, err := other.cloneTree(g)
	if err != nil {
		return err
	}

	typed, ok := any(cloned).(*D)
	if !ok {
		return &TypeMismatchError{Want: c.TypeName(), Got: cloned.TypeName()}
	}

	*self = *typed
	c.Bind(self)
	return nil
}

// verifyRebuilt checks that dst, freshly Reset, has the registries of src:
// equal counts first, then every src name present in dst under a new object.
func verifyRebuilt[B tensor.Backend](module string, src, dst *Base[B]) error {
	if err := checkCounts(module, src, dst.params.Len(), dst.buffers.Len(), dst.children.Len()); err != nil {
		return err
	}

	mismatch := func(category Category, key string, aliased bool) error {
		return &StructuralMismatchError{
			Module:   module,
			Category: category,
			Key:      key,
			Aliased:  aliased,
		}
	}

	for name, p := range src.params.All() {
		q, ok := dst.params.Get(name)
		if !ok {
			return mismatch(CategoryParameters, name, false)
		}
		if q == p || q.Tensor().Raw() == p.Tensor().Raw() {
			return mismatch(CategoryParameters, name, true)
		}
	}
	for name, t := range src.buffers.All() {
		u, ok := dst.buffers.Get(name)
		if !ok {
			return mismatch(CategoryBuffers, name, false)
		}
		if u == t || u.Raw() == t.Raw() {
			return mismatch(CategoryBuffers, name, true)
		}
	}
	for name, m := range src.children.All() {
		n, ok := dst.children.Get(name)
		if !ok {
			return mismatch(CategoryChildren, name, false)
		}
		if n == m {
			return mismatch(CategoryChildren, name, true)
		}
	}
	return nil
}

// checkCounts compares the registry sizes of src with those of its copy.
func checkCounts[B tensor.Backend](module string, src *Base[B], params, buffers, children int) error {
	counts := []struct {
		category  Category
		want, got int
	}{
		{CategoryParameters, src.params.Len(), params},
		{CategoryBuffers, src.buffers.Len(), buffers},
		{CategoryChildren, src.children.Len(), children},
	}
	for _, c := range counts {
		if c.want != c.got {
			return &StructuralMismatchError{Module: module, Category: c.category, Want: c.want, Got: c.got}
		}
	}
	return nil
}

// copyTensors issues non-blocking copies of every parameter and buffer of
// src into the same-named entry of dst. Completion is left to g.Wait.
func copyTensors[B tensor.Backend](module string, g *tensor.CopyGroup, src, dst *Base[B]) error {
	for name, p := range src.params.All() {
		q, _ := dst.params.Get(name)
		to := q.Tensor()
		if err := g.Copy(to.Raw(), p.Tensor().Raw(), any(to.Backend()), true); err != nil {
			return fmt.Errorf("nn: cloning %s: parameter %q: %w", module, name, err)
		}
		q.SetRequiresGrad(p.RequiresGrad())
	}
	for name, t := range src.buffers.All() {
		u, _ := dst.buffers.Get(name)
		if err := g.Copy(u.Raw(), t.Raw(), any(u.Backend()), true); err != nil {
			return fmt.Errorf("nn: cloning %s: buffer %q: %w", module, name, err)
		}
	}
	return nil
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStructuralMismatch):
		return metrics.ReasonStructuralMismatch
	case errors.Is(err, ErrTypeMismatch):
		return metrics.ReasonTypeMismatch
	case errors.Is(err, tensor.ErrShapeMismatch), errors.Is(err, tensor.ErrDTypeMismatch):
		return metrics.ReasonCopy
	default:
		return metrics.ReasonOther
	}
}
