package nn

import (
	"errors"
	"fmt"
)

// Clone errors. Both are fatal to the Clone call that produced them; no
// partial clone is returned.
var (
	// ErrStructuralMismatch is matched by *StructuralMismatchError.
	ErrStructuralMismatch = errors.New("nn: cloned module structure differs from original")
	// ErrTypeMismatch is matched by *TypeMismatchError.
	ErrTypeMismatch = errors.New("nn: cloned submodule type differs from target")
	// ErrUnbound is returned by Clone on a Cloneable whose Bind was never called.
	ErrUnbound = errors.New("nn: Cloneable is not bound to its module, call Bind in the constructor")
)

// Category names a module registry.
type Category string

// Registry categories.
const (
	CategoryParameters Category = "parameters"
	CategoryBuffers    Category = "buffers"
	CategoryChildren   Category = "children"
)

func (c Category) registerFunc() string {
	switch c {
	case CategoryParameters:
		return "RegisterParameter"
	case CategoryBuffers:
		return "RegisterBuffer"
	default:
		return "RegisterModule"
	}
}

func (c Category) noun() string {
	switch c {
	case CategoryParameters:
		return "parameters"
	case CategoryBuffers:
		return "buffers"
	default:
		return "child modules"
	}
}

// StructuralMismatchError reports that Reset, run on a fresh copy, did not
// rebuild the registries of the original module.
type StructuralMismatchError struct {
	Module   string   // concrete type of the module being cloned
	Category Category // registry that differs
	Want     int      // entries in the original
	Got      int      // entries after Reset
	Key      string   // entry missing from, or aliased by, the copy
	Aliased  bool     // Reset registered the original's own object under Key
}

// Error implements the error interface.
func (e *StructuralMismatchError) Error() string {
	switch {
	case e.Aliased:
		return fmt.Sprintf(
			"nn: cloning %s: %s %q of the clone is the original's own object after calling Reset(); "+
				"Reset() must allocate new %s instead of re-registering existing ones",
			e.Module, e.Category, e.Key, e.Category.noun())
	case e.Key != "":
		return fmt.Sprintf(
			"nn: cloning %s: the cloned module has no %s entry %q after calling Reset(); "+
				"are you sure you called %s() inside Reset() and not the constructor?",
			e.Module, e.Category, e.Key, e.Category.registerFunc())
	default:
		return fmt.Sprintf(
			"nn: cloning %s: the cloned module does not have the same number of %s as the original "+
				"module after calling Reset() (want %d, got %d); "+
				"are you sure you called %s() inside Reset() and not the constructor?",
			e.Module, e.Category.noun(), e.Want, e.Got, e.Category.registerFunc())
	}
}

// Is makes errors.Is(err, ErrStructuralMismatch) hold.
func (e *StructuralMismatchError) Is(target error) bool {
	return target == ErrStructuralMismatch
}

// TypeMismatchError reports that a child's clone did not have the concrete
// type of the slot it was being cloned into.
type TypeMismatchError struct {
	Want string // concrete type of the target child
	Got  string // concrete type produced by the source child's Clone
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		"nn: attempted to clone submodule, but it is of a different type than the submodule "+
			"it was to be cloned into (want %s, got %s)", e.Want, e.Got)
}

// Is makes errors.Is(err, ErrTypeMismatch) hold.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
