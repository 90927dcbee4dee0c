package executor

// MergeFunc combines a partial value into the accumulated value for the same key
type MergeFunc[V any] func(acc, part V) V

// Number is the set of types Sum can add
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Sum merges counters by addition
func Sum[V Number]() MergeFunc[V] {
	return func(acc, part V) V {
		return acc + part
	}
}

// Concat merges sequences by appending part to acc
func Concat[E any]() MergeFunc[[]E] {
	return func(acc, part []E) []E {
		return append(acc, part...)
	}
}

// MergeMaps merges nested maps key by key with inner.
// acc is modified in place when non-nil.
func MergeMaps[K comparable, V any](inner MergeFunc[V]) MergeFunc[map[K]V] {
	return func(acc, part map[K]V) map[K]V {
		if acc == nil {
			acc = make(map[K]V, len(part))
		}
		for k, v := range part {
			if existing, ok := acc[k]; ok {
				acc[k] = inner(existing, v)
			} else {
				acc[k] = v
			}
		}
		return acc
	}
}

// Replace keeps the most recently merged value
func Replace[V any]() MergeFunc[V] {
	return func(_, part V) V {
		return part
	}
}

// mergeInto folds part into acc using merge for keys present in both
func mergeInto[V any](acc, part map[string]V, merge MergeFunc[V]) {
	for k, v := range part {
		if existing, ok := acc[k]; ok {
			acc[k] = merge(existing, v)
		} else {
			acc[k] = v
		}
	}
}
