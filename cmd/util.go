package main

func SliceToSlice[TIn any, TOut any](in []TIn, f func(TIn) TOut) []TOut {
	if in == nil {
		return nil
	}
	out := make([]TOut, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}

func Find[TIn any](in []TIn, f func(v TIn) bool) int {
	for i, v := range in {
		if f(v) {
			return i
		}
	}
	return -1
}
