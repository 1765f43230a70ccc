// Package encode provides dense integer interning for hashable values, used
// to back both ECDFA state ids and grammar symbol ids.
package encode

// Encoder assigns each distinct value of T a unique, dense id starting at 0,
// preserving identity for the lifetime of the Encoder. There is no removal
// operation: once a value is encoded it keeps its id forever.
type Encoder[T comparable] struct {
	encoder map[T]int
	decoder []T
}

// New returns a new, empty Encoder.
func New[T comparable]() *Encoder[T] {
	return &Encoder[T]{encoder: map[T]int{}}
}

// Encode returns the existing id for t, allocating a new dense id if t has
// not been seen before.
func (e *Encoder[T]) Encode(t T) int {
	if id, ok := e.encoder[t]; ok {
		return id
	}
	id := len(e.decoder)
	e.encoder[t] = id
	e.decoder = append(e.decoder, t)
	return id
}

// Decode returns the value associated with id, and whether id has been
// allocated.
func (e *Encoder[T]) Decode(id int) (T, bool) {
	if id < 0 || id >= len(e.decoder) {
		var zero T
		return zero, false
	}
	return e.decoder[id], true
}

// Lookup returns the id already assigned to t, without allocating a new one.
func (e *Encoder[T]) Lookup(t T) (int, bool) {
	id, ok := e.encoder[t]
	return id, ok
}

// Len returns the number of distinct values encoded so far.
func (e *Encoder[T]) Len() int {
	return len(e.decoder)
}
