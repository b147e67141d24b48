package lattice

import (
	qkemsim "github.com/kemlab/qkemsim-go"
)

// mod returns x mod q as a canonical residue in [0, q).
func mod(x int64, q int) int32 {
	r := x % int64(q)
	if r < 0 {
		r += int64(q)
	}
	return int32(r)
}

// centerMod returns x mod q centered in (-q/2, q/2]. Used for decoding,
// where the noise is small and centered around 0.
func centerMod(x int32, q int) int32 {
	r := mod(int64(x), q)
	if int(r) > q/2 {
		return r - int32(q)
	}
	return r
}

// polyAdd adds two ring elements coefficient-wise mod q.
func polyAdd(a, b qkemsim.RingElement, q int) qkemsim.RingElement {
	result := make(qkemsim.RingElement, len(a))
	for i := range a {
		result[i] = mod(int64(a[i])+int64(b[i]), q)
	}
	return result
}

// polySub subtracts b from a coefficient-wise mod q.
func polySub(a, b qkemsim.RingElement, q int) qkemsim.RingElement {
	result := make(qkemsim.RingElement, len(a))
	for i := range a {
		result[i] = mod(int64(a[i])-int64(b[i]), q)
	}
	return result
}

// polyMulAcc accumulates the negacyclic product a*b into acc. The ring
// relation x^deg = -1 folds coefficient i+j >= deg back with a sign
// flip. Accumulation stays in int64: deg * q^2 is far below overflow for
// every valid parameter set.
func polyMulAcc(acc []int64, a, b qkemsim.RingElement) {
	deg := len(a)
	for i := 0; i < deg; i++ {
		ai := int64(a[i])
		if ai == 0 {
			continue
		}
		for j := 0; j < deg; j++ {
			k := i + j
			if k < deg {
				acc[k] += ai * int64(b[j])
			} else {
				acc[k-deg] -= ai * int64(b[j])
			}
		}
	}
}

// reduceAcc reduces an int64 accumulator into a canonical ring element.
func reduceAcc(acc []int64, q int) qkemsim.RingElement {
	result := make(qkemsim.RingElement, len(acc))
	for i, v := range acc {
		result[i] = mod(v, q)
	}
	return result
}

// dotProduct computes sum_i a[i]*b[i] over the ring for two vectors of
// ring elements, reducing once at the end.
func dotProduct(a, b []qkemsim.RingElement, deg, q int) qkemsim.RingElement {
	acc := make([]int64, deg)
	for i := range a {
		polyMulAcc(acc, a[i], b[i])
	}
	return reduceAcc(acc, q)
}

// encodeMessage maps message bytes onto a ring element, one bit per
// coefficient scaled by round(q/2). Coefficients beyond the message
// width stay zero.
func encodeMessage(msg []byte, deg, q int) qkemsim.RingElement {
	result := make(qkemsim.RingElement, deg)
	scale := int32((q + 1) / 2)
	for i := 0; i < len(msg); i++ {
		b := msg[i]
		baseIdx := i * 8
		for j := 0; j < 8; j++ {
			bit := (b >> j) & 1
			result[baseIdx+j] = int32(bit) * scale
		}
	}
	return result
}

// decodeMessage rounds each coefficient to the nearer of the two message
// symbols {0, q/2} and packs the resulting bits into size bytes.
func decodeMessage(v qkemsim.RingElement, q, size int) []byte {
	result := make([]byte, size)
	threshold := int32(q / 4)

	for i := 0; i < size; i++ {
		var b byte
		baseIdx := i * 8
		for j := 0; j < 8; j++ {
			c := centerMod(v[baseIdx+j], q)
			if c < 0 {
				c = -c
			}
			if c > threshold {
				b |= 1 << j
			}
		}
		result[i] = b
	}
	return result
}
