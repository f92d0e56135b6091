package nn

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/born-ml/cloneable/internal/tensor"
)

func sortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// CompareStructure reports every structural difference between a and b:
// parameter, buffer and child names, child types and tensor shapes and
// dtypes, recursively. It returns nil when the trees have the same shape.
// Tensor contents are not compared.
func CompareStructure[B tensor.Backend](a, b Module[B]) error {
	var errs *multierror.Error
	compareModule("", a, b, &errs)
	return errs.ErrorOrNil()
}

func compareModule[B tensor.Backend](path string, a, b Module[B], errs **multierror.Error) {
	where := path
	if where == "" {
		where = "<root>"
	}

	if a.TypeName() != b.TypeName() {
		*errs = multierror.Append(*errs, fmt.Errorf("%s: type %s != %s", where, a.TypeName(), b.TypeName()))
		return
	}

	compareNames(where, CategoryParameters, a.NamedParameters().Keys(), b.NamedParameters(), errs)
	compareNames(where, CategoryBuffers, a.NamedBuffers().Keys(), b.NamedBuffers(), errs)
	compareNames(where, CategoryChildren, a.NamedChildren().Keys(), b.NamedChildren(), errs)

	for name, p := range a.NamedParameters().All() {
		if q, ok := b.NamedParameters().Get(name); ok {
			compareTensor(joinPrefix(path, name), p.Tensor().Raw(), q.Tensor().Raw(), errs)
		}
	}
	for name, t := range a.NamedBuffers().All() {
		if u, ok := b.NamedBuffers().Get(name); ok {
			compareTensor(joinPrefix(path, name), t.Raw(), u.Raw(), errs)
		}
	}
	for name, child := range a.NamedChildren().All() {
		if other, ok := b.NamedChildren().Get(name); ok {
			compareModule(joinPrefix(path, name), child, other, errs)
		}
	}
}

func compareNames[V any](where string, category Category, want []string, got *OrderedDict[V], errs **multierror.Error) {
	for _, k := range want {
		if !got.Contains(k) {
			*errs = multierror.Append(*errs, fmt.Errorf("%s: %s entry %q missing", where, category, k))
		}
	}
	for _, k := range got.Keys() {
		if !slices.Contains(want, k) {
			*errs = multierror.Append(*errs, fmt.Errorf("%s: unexpected %s entry %q", where, category, k))
		}
	}
}

func compareTensor(name string, a, b *tensor.RawTensor, errs **multierror.Error) {
	if err := a.CheckCopy(b); err != nil {
		*errs = multierror.Append(*errs, fmt.Errorf("%s: %w", name, err))
	}
}

// SharedTensors returns the dotted names of parameters and buffers whose
// storage is shared between a and b. A clone shares none with its source.
func SharedTensors[B tensor.Backend](a, b Module[B]) []string {
	as, bs := a.StateDict(), b.StateDict()

	var shared []string
	for _, name := range sortedKeys(as) {
		if other, ok := bs[name]; ok && as[name].SharesStorage(other) {
			shared = append(shared, name)
		}
	}
	return shared
}
