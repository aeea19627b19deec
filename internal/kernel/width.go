package kernel

// SuggestedWidth returns the chunk width the SIMD-chunked primitives
// unroll by for element type T. This is the Go analogue of the source
// engine's "suggested vector length" query (§4.4, Design Notes) — in the
// absence of portable SIMD intrinsics, it is plain loop unrolling the Go
// compiler's auto-vectorizer can act on, sized so a chunk fits a typical
// 256-bit vector register. Correctness of every caller must not depend on
// this specific value; it is purely a performance knob.
func SuggestedWidth[T Elem]() int {
	var z T
	switch any(z).(type) {
	case float64, int64:
		return 4
	case float32, int32, uint32:
		return 8
	case uint8:
		return 32
	default:
		return 4
	}
}
