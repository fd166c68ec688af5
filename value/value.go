// Package value defines the scalar that the reconciliation engine infers.
package value

// Value is a totally-ordered signed integer scalar. The engine only
// assumes an abelian group under Add; it never interprets what the
// number counts.
type Value int64

// Add returns v + delta.
func (v Value) Add(delta Value) Value {
	return v + delta
}

// Sub returns v - other.
func (v Value) Sub(other Value) Value {
	return v - other
}

// Equal reports whether v and other are the same scalar.
func (v Value) Equal(other Value) bool {
	return v == other
}

// Less reports whether v < other.
func (v Value) Less(other Value) bool {
	return v < other
}
