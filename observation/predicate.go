package observation

import "github.com/abh/reconciled/value"

// Kind tags which definition predicate an Observation or Level carries.
type Kind int

const (
	// KindTransition asserts both the before and after value of a poll.
	KindTransition Kind = iota
	// KindAssignment asserts an absolute reassignment.
	KindAssignment
	// KindMutation asserts a relative delta.
	KindMutation
)

func (k Kind) String() string {
	switch k {
	case KindTransition:
		return "Transition"
	case KindAssignment:
		return "Assignment"
	case KindMutation:
		return "Mutation"
	default:
		return "Unknown"
	}
}

// Predicate is the tagged-variant definition predicate from spec §3: a
// Transition, Assignment, or Mutation, each with its own Apply semantics.
type Predicate struct {
	Kind Kind

	// Transition fields.
	V0 value.Value
	V1 value.Value

	// Assignment field.
	VNew value.Value

	// Mutation field.
	Delta value.Value
}

// Transition builds a Transition predicate asserting v0 then v1.
func Transition(v0, v1 value.Value) Predicate {
	return Predicate{Kind: KindTransition, V0: v0, V1: v1}
}

// Assignment builds an Assignment predicate asserting vNew.
func Assignment(vNew value.Value) Predicate {
	return Predicate{Kind: KindAssignment, VNew: vNew}
}

// Mutation builds a Mutation predicate asserting delta.
func Mutation(delta value.Value) Predicate {
	return Predicate{Kind: KindMutation, Delta: delta}
}

// Apply transforms the input value v according to this predicate's
// semantics, matching the table in spec §3. It returns (result, true) on
// success, or (zero, false) when a Transition's precondition fails.
func (p Predicate) Apply(v value.Value) (value.Value, bool) {
	switch p.Kind {
	case KindTransition:
		if v.Equal(p.V0) {
			return p.V1, true
		}
		return 0, false
	case KindAssignment:
		return p.VNew, true
	case KindMutation:
		return v.Add(p.Delta), true
	default:
		return 0, false
	}
}
