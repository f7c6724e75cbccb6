package types

import (
	"fmt"
	"strings"
)

// PointerWidth is the bit width reported by Reference and Resource types.
// The core targets 64-bit hosts exclusively; §4.1 treats this as a constant
// rather than something the Walker queries per-architecture.
const PointerWidth = 64

// Registry is the canonical, in-memory catalogue of Reso types for one
// compilation job. It has no side effects outside its own map and is safe to
// use from a single goroutine, matching §5's single-threaded Walker.
type Registry struct {
	byName map[string]*Type
	seq    int // Not used by any method: generic keys come from name and index, resource names are the declared name.
}

// NewRegistry returns an empty Registry pre-seeded with nothing; primitives
// are interned lazily on first request.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Type, 32)}
}

// InternPrimitive returns the canonical Type for a primitive Kind, creating it
// on first use. Two calls with the same kind always return the same pointer.
func (r *Registry) InternPrimitive(kind Kind) *Type {
	name := kind.String()
	if t, ok := r.byName[name]; ok {
		return t
	}
	t := &Type{Name: name, Kind: kind, Width: bitWidths[kind]}
	r.byName[name] = t
	return t
}

// LookupByName returns the Type registered under name, if any.
func (r *Registry) LookupByName(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// MakeReference returns the canonical reference-to-pointee Type, interning on
// structural equality (same pointee identity).
func (r *Registry) MakeReference(pointee *Type) *Type {
	name := "&" + pointee.Name
	if t, ok := r.byName[name]; ok {
		return t
	}
	t := &Type{Name: name, Kind: Reference, Width: PointerWidth, Pointee: pointee}
	r.byName[name] = t
	return t
}

// MakeFunction returns the canonical function Type for the given ordered
// parameter types and return type, interning on structural equality.
func (r *Registry) MakeFunction(params []*Type, ret *Type) *Type {
	sb := strings.Builder{}
	sb.WriteString("fn(")
	for i1, p := range params {
		if i1 > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Name)
	}
	sb.WriteString(")->")
	sb.WriteString(ret.Name)
	name := sb.String()
	if t, ok := r.byName[name]; ok {
		return t
	}
	t := &Type{Name: name, Kind: Function, Params: append([]*Type(nil), params...), Ret: ret}
	r.byName[name] = t
	return t
}

// MakeGeneric registers a generic type parameter by name and substitution
// index. Generics are declared, not instantiated — see DESIGN.md.
func (r *Registry) MakeGeneric(name string, index int) *Type {
	key := fmt.Sprintf("generic#%s#%d", name, index)
	if t, ok := r.byName[key]; ok {
		return t
	}
	t := &Type{Name: name, Kind: Generic, GenericIndex: index}
	r.byName[key] = t
	return t
}

// RegisterResource registers a nominal resource type. Resources are nominal
// by name, not structural: two calls with the same name return the same
// Type even if fields differ, matching Phase 1's opaque-struct-then-fill
// sequencing (§4.4 Phase 1).
func (r *Registry) RegisterResource(name string, fields []Field, dtorName string) (*Type, error) {
	if t, ok := r.byName[name]; ok {
		if t.Kind != Resource {
			return nil, fmt.Errorf("cannot register resource %q: name already bound to a %s type", name, t.Kind)
		}
		// Opaque-struct-then-fill: fields arrive in Phase 2.
		if fields != nil {
			t.Fields = fields
		}
		if dtorName != "" {
			t.DtorName = dtorName
		}
		return t, nil
	}
	t := &Type{
		Name:     name,
		Kind:     Resource,
		Width:    PointerWidth,
		Fields:   fields,
		CtorName: name + ".new",
		DtorName: dtorName,
	}
	r.byName[name] = t
	return t, nil
}
