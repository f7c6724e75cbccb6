package types

import "fmt"

// Type is a single entry in the Reso type catalogue. Types are interned: two
// calls to the Registry with structurally equal arguments return the same
// *Type pointer, so equality is pointer identity.
type Type struct {
	Name  string // Canonical, unique name.
	Kind  Kind
	Width int // Declared bit width. PointerWidth for Reference and Resource, 0 for other non-scalar kinds.

	// Handle is the native IR type handle bound to this Type by the IR
	// Builder Facade. It is deliberately untyped (rather than llvm.Type) so
	// that the type registry carries no dependency on the native backend;
	// internal/irgen is the only package that type-asserts it.
	Handle interface{}

	// Generic-only: index used during parameter substitution.
	GenericIndex int

	// Reference-only.
	Pointee *Type

	// Function-only.
	Params []*Type
	Ret    *Type

	// Resource-only: nominal struct layout plus synthesized ctor/dtor names.
	Fields   []Field
	CtorName string
	DtorName string
}

// Field describes one member of a Resource type.
type Field struct {
	Name string
	Type *Type
}

// Bind attaches a native IR type handle to t. Called once, lazily, by the IR
// Builder Facade the first time t is used in code generation.
func (t *Type) Bind(handle interface{}) {
	t.Handle = handle
}

// Bound reports whether a native handle has been attached.
func (t *Type) Bound() bool {
	return t.Handle != nil
}

func (t *Type) String() string {
	switch t.Kind {
	case Reference:
		return fmt.Sprintf("&%s", t.Pointee)
	case Function:
		return fmt.Sprintf("fn(%s) -> %s", paramList(t.Params), t.Ret)
	case Resource:
		return fmt.Sprintf("resource %s", t.Name)
	case Generic:
		return fmt.Sprintf("generic %s#%d", t.Name, t.GenericIndex)
	default:
		return t.Name
	}
}

func paramList(params []*Type) string {
	s := ""
	for i1, p := range params {
		if i1 > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s
}

// IsPointerLike reports whether t reports pointer width for Width queries.
func (t *Type) IsPointerLike() bool {
	return t.Kind == Reference || t.Kind == Resource
}
