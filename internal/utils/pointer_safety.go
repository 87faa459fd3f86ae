package utils

// Value dereferences p, returning the zero value when p is nil. Used
// for provider API responses whose optional fields decode to pointers.
func Value[T any](p *T) T {
	if p == nil {
		return *new(T)
	}
	return *p
}
