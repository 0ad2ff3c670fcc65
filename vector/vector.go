package vector

import (
	"encoding/binary"
	"math"
)

// Encode packs a float32 vector into a byte buffer: 4-byte IEEE-754
// little-endian per element, in vector order, no length prefix. The
// length is derived from the buffer size on decode.
func Encode(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	bs := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(bs[i*4:], math.Float32bits(v))
	}
	return bs
}

// Decode is the inverse of Encode. Malformed input (length not a
// multiple of 4) decodes to nil; callers treat an empty result as
// "no score computable" so one corrupt record cannot abort a ranking
// pass.
func Decode(bs []byte) []float32 {
	if len(bs) == 0 || len(bs)%4 != 0 {
		return nil
	}
	vec := make([]float32, len(bs)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(bs[i*4:]))
	}
	return vec
}

// Cosine returns the cosine similarity of a and b. The boolean is
// false when no score is computable: either vector is empty, the
// lengths differ, or either vector has zero norm. That sentinel is
// filtered before ranking, never treated as an error.
func Cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		va, vb := float64(a[i]), float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}
