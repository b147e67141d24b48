package lattice

import (
	"encoding/binary"
	"errors"

	qkemsim "github.com/kemlab/qkemsim-go"
	"github.com/kemlab/qkemsim-go/core"
	"github.com/kemlab/qkemsim-go/utils"
)

// SerializePublicKey serializes a lattice public key: the numeric
// parameters, the matrix seed, then the t vector as little-endian
// uint32 coefficients.
func SerializePublicKey(pk *qkemsim.LatticePublicKey) []byte {
	params := pk.Params
	tBytes := params.K * params.Degree * 4
	result := make([]byte, 0, 24+len(pk.Seed)+tBytes)

	buf := make([]byte, 4)
	for _, v := range []int{params.Degree, params.K, params.Q, params.Eta, params.SecretSize} {
		binary.LittleEndian.PutUint32(buf, uint32(v))
		result = append(result, buf...)
	}

	binary.LittleEndian.PutUint32(buf, uint32(len(pk.Seed)))
	result = append(result, buf...)
	result = append(result, pk.Seed...)

	for _, poly := range pk.T {
		for _, c := range poly {
			binary.LittleEndian.PutUint32(buf, uint32(c))
			result = append(result, buf...)
		}
	}
	return result
}

// DeserializePublicKey parses a serialized lattice public key, validating
// the embedded parameters before allocating anything sized by them.
func DeserializePublicKey(data []byte) (*qkemsim.LatticePublicKey, error) {
	offset := 0
	fields := make([]int, 5)
	var err error
	for i := range fields {
		fields[i], offset, err = utils.SafeReadLength(data, offset, utils.MaxVectorLength)
		if err != nil {
			return nil, err
		}
	}

	params := qkemsim.LatticeParams{
		Degree:     fields[0],
		K:          fields[1],
		Q:          fields[2],
		Eta:        fields[3],
		SecretSize: fields[4],
	}
	if err := core.ValidateLatticeParams(params); err != nil {
		return nil, err
	}

	seedLen, offset, err := utils.SafeReadLength(data, offset, 64)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateSliceAccess(data, offset, seedLen); err != nil {
		return nil, err
	}
	seed := append([]byte{}, data[offset:offset+seedLen]...)
	offset += seedLen

	t, offset, err := readPolyVector(data, offset, params.K, params.Degree, params.Q)
	if err != nil {
		return nil, err
	}
	if offset != len(data) {
		return nil, errors.New("trailing bytes in public key")
	}

	return &qkemsim.LatticePublicKey{Seed: seed, T: t, Params: params}, nil
}

// SerializeCiphertext serializes a lattice ciphertext (u vector then v).
func SerializeCiphertext(ct *qkemsim.LatticeCiphertext, params qkemsim.LatticeParams) []byte {
	result := make([]byte, 0, (params.K+1)*params.Degree*4)
	buf := make([]byte, 4)
	for _, poly := range ct.U {
		for _, c := range poly {
			binary.LittleEndian.PutUint32(buf, uint32(c))
			result = append(result, buf...)
		}
	}
	for _, c := range ct.V {
		binary.LittleEndian.PutUint32(buf, uint32(c))
		result = append(result, buf...)
	}
	return result
}

// DeserializeCiphertext parses a serialized ciphertext for the given
// parameter set.
func DeserializeCiphertext(data []byte, params qkemsim.LatticeParams) (*qkemsim.LatticeCiphertext, error) {
	if err := core.ValidateLatticeParams(params); err != nil {
		return nil, err
	}

	u, offset, err := readPolyVector(data, 0, params.K, params.Degree, params.Q)
	if err != nil {
		return nil, err
	}
	vVec, offset, err := readPolyVector(data, offset, 1, params.Degree, params.Q)
	if err != nil {
		return nil, err
	}
	if offset != len(data) {
		return nil, errors.New("trailing bytes in ciphertext")
	}

	return &qkemsim.LatticeCiphertext{U: u, V: vVec[0]}, nil
}

// readPolyVector reads k ring elements of the given degree, rejecting
// non-canonical coefficients.
func readPolyVector(data []byte, offset, k, deg, q int) ([]qkemsim.RingElement, int, error) {
	size, err := utils.SafeMultiply(k*deg, 4)
	if err != nil {
		return nil, offset, err
	}
	if err := utils.ValidateSliceAccess(data, offset, size); err != nil {
		return nil, offset, err
	}

	vec := make([]qkemsim.RingElement, k)
	for i := 0; i < k; i++ {
		poly := make(qkemsim.RingElement, deg)
		for j := 0; j < deg; j++ {
			raw := binary.LittleEndian.Uint32(data[offset:])
			offset += 4
			if raw >= uint32(q) {
				return nil, offset, errors.New("coefficient out of range")
			}
			poly[j] = int32(raw)
		}
		vec[i] = poly
	}
	return vec, offset, nil
}
