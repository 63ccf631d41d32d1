package util

func InPlaceFilter[T any](s *[]T, p func(T) bool) {
	i := 0
	for _, e := range *s {
		if p(e) {
			(*s)[i] = e
			i++
		}
	}
	*s = (*s)[:i]
}

// IndexFrom returns the first index at or after start whose element satisfies p, or -1
func IndexFrom[T any](s []T, start int, p func(T) bool) int {
	for i := start; i < len(s); i++ {
		if p(s[i]) {
			return i
		}
	}

	return -1
}

// Chunk splits s into consecutive slices of at most size elements
func Chunk[T any](s []T, size int) [][]T {
	var chunks [][]T
	for size < len(s) {
		s, chunks = s[size:], append(chunks, s[:size:size])
	}
	if len(s) > 0 {
		chunks = append(chunks, s)
	}

	return chunks
}
