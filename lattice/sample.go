package lattice

import (
	"encoding/binary"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/utils"
)

// nonceSeed derives a per-element sampling seed from a base seed and an
// element index.
func nonceSeed(seed []byte, nonce uint32) []byte {
	s := make([]byte, len(seed)+4)
	copy(s, seed)
	binary.LittleEndian.PutUint32(s[len(seed):], nonce)
	return s
}

// sampleUniformPoly generates a deterministic uniform ring element from a
// seed and nonce using SHAKE256 with rejection sampling, so the
// distribution is exactly uniform mod q.
func sampleUniformPoly(seed []byte, nonce uint32, deg, q int) qkemsim.RingElement {
	result := make(qkemsim.RingElement, deg)
	base := nonceSeed(seed, nonce)

	threshold := uint32(0xFFFFFFFF - (0xFFFFFFFF % uint32(q)))
	bytes := utils.Shake256(base, deg*4*2)

	bytesUsed := 0
	generated := 0
	extensionCounter := uint32(0)

	for generated < deg {
		if bytesUsed+4 > len(bytes) {
			extensionCounter++
			bytes = utils.Shake256(nonceSeed(base, extensionCounter), deg*4*2)
			bytesUsed = 0
		}

		value := binary.LittleEndian.Uint32(bytes[bytesUsed:])
		bytesUsed += 4

		if value < threshold {
			result[generated] = int32(value % uint32(q))
			generated++
		}
	}
	return result
}

// expandMatrix expands the public seed into the k x k matrix A of ring
// elements. The expansion is deterministic, so A is reproducible from
// the seed alone and never stored or transmitted.
func expandMatrix(seed []byte, params qkemsim.LatticeParams) [][]qkemsim.RingElement {
	k := params.K
	A := make([][]qkemsim.RingElement, k)
	for i := 0; i < k; i++ {
		A[i] = make([]qkemsim.RingElement, k)
		for j := 0; j < k; j++ {
			A[i][j] = sampleUniformPoly(seed, uint32(i*k+j), params.Degree, params.Q)
		}
	}
	return A
}

// transpose returns A^T. Cheap: only the element headers move.
func transpose(A [][]qkemsim.RingElement) [][]qkemsim.RingElement {
	k := len(A)
	T := make([][]qkemsim.RingElement, k)
	for i := 0; i < k; i++ {
		T[i] = make([]qkemsim.RingElement, k)
		for j := 0; j < k; j++ {
			T[i][j] = A[j][i]
		}
	}
	return T
}

// sampleCBDPoly samples a ring element with coefficients from the
// centered binomial distribution with parameter eta: each coefficient is
// the difference of two eta-bit popcounts, canonically reduced mod q.
func sampleCBDPoly(seed []byte, nonce uint32, deg, eta, q int) qkemsim.RingElement {
	// 2*eta bits per coefficient.
	totalBits := deg * 2 * eta
	bytes := utils.Shake256(nonceSeed(seed, nonce), (totalBits+7)/8)

	result := make(qkemsim.RingElement, deg)
	bitPos := 0
	readBit := func() int32 {
		b := (bytes[bitPos>>3] >> (bitPos & 7)) & 1
		bitPos++
		return int32(b)
	}

	for i := 0; i < deg; i++ {
		var a, b int32
		for t := 0; t < eta; t++ {
			a += readBit()
			b += readBit()
		}
		result[i] = mod(int64(a-b), q)
	}
	return result
}

// sampleCBDVector samples a length-k vector of CBD ring elements, one
// nonce per element.
func sampleCBDVector(seed []byte, k int, params qkemsim.LatticeParams) []qkemsim.RingElement {
	v := make([]qkemsim.RingElement, k)
	for i := 0; i < k; i++ {
		v[i] = sampleCBDPoly(seed, uint32(i), params.Degree, params.Eta, params.Q)
	}
	return v
}
