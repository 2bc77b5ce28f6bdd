package util

// MappedSlice returns a new slice holding f applied to each element of values.
func MappedSlice[V any, U any](values []V, f func(V) U) []U {
	mapped := make([]U, 0, len(values))
	for _, value := range values {
		mapped = append(mapped, f(value))
	}
	return mapped
}
