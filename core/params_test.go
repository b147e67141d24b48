package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qkemsim "github.com/kemlab/qkemsim-go"
)

func TestShippedParamsValidate(t *testing.T) {
	for _, p := range []qkemsim.RSAParams{RSAToyParams, RSA256Params, RSA512Params} {
		assert.NoError(t, ValidateRSAParams(p), "bits=%d", p.Bits)
	}
	for _, p := range []qkemsim.LatticeParams{Lat128Params, Lat256Params} {
		assert.NoError(t, ValidateLatticeParams(p), p.Name)
	}
}

func TestGetLatticeParams(t *testing.T) {
	p, err := GetLatticeParams("LAT-128")
	require.NoError(t, err)
	assert.Equal(t, Lat128Params, p)

	p, err = GetLatticeParams("LAT-256")
	require.NoError(t, err)
	assert.Equal(t, Lat256Params, p)

	_, err = GetLatticeParams("LAT-512")
	assert.Error(t, err)
}

func TestValidateRSAParams(t *testing.T) {
	cases := []struct {
		name   string
		params qkemsim.RSAParams
	}{
		{"too small", qkemsim.RSAParams{Bits: 8, E: 65537}},
		{"too large", qkemsim.RSAParams{Bits: 8192, E: 65537}},
		{"odd bits", qkemsim.RSAParams{Bits: 33, E: 65537}},
		{"even exponent", qkemsim.RSAParams{Bits: 32, E: 4}},
		{"exponent below 3", qkemsim.RSAParams{Bits: 32, E: 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Error(t, ValidateRSAParams(c.params))
		})
	}
}

func TestValidateLatticeParams(t *testing.T) {
	valid := Lat128Params

	cases := []struct {
		name   string
		mutate func(*qkemsim.LatticeParams)
	}{
		{"degree not power of two", func(p *qkemsim.LatticeParams) { p.Degree = 100 }},
		{"zero degree", func(p *qkemsim.LatticeParams) { p.Degree = 0 }},
		{"zero rank", func(p *qkemsim.LatticeParams) { p.K = 0 }},
		{"composite modulus", func(p *qkemsim.LatticeParams) { p.Q = 3330 }},
		{"modulus too small", func(p *qkemsim.LatticeParams) { p.Q = 251 }},
		{"zero eta", func(p *qkemsim.LatticeParams) { p.Eta = 0 }},
		{"eta too large", func(p *qkemsim.LatticeParams) { p.Eta = 9 }},
		{"zero secret", func(p *qkemsim.LatticeParams) { p.SecretSize = 0 }},
		{"secret exceeds ring", func(p *qkemsim.LatticeParams) { p.SecretSize = 17 }},
		{"decode margin violated", func(p *qkemsim.LatticeParams) { p.Q = 257; p.Degree = 256; p.SecretSize = 32 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := valid
			c.mutate(&p)
			assert.Error(t, ValidateLatticeParams(p))
		})
	}
}
