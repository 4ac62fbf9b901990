package ledger

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProof = `{
	"proof": {
		"pi_a": ["1", "2", "1"],
		"pi_b": [["3", "4"], ["5", "6"], ["1", "0"]],
		"pi_c": ["7", "8", "1"],
		"protocol": "groth16"
	},
	"pub_signals": ["42", "43"]
}`

func TestProofPoints(t *testing.T) {
	p, err := ParseProof([]byte(sampleProof))
	require.NoError(t, err)

	pts, signals, err := p.Points()
	require.NoError(t, err)

	assert.Equal(t, [2]*big.Int{big.NewInt(1), big.NewInt(2)}, pts.A)
	assert.Equal(t, [2]*big.Int{big.NewInt(7), big.NewInt(8)}, pts.C)
	// each G2 coordinate pair is swapped
	assert.Equal(t, [2]*big.Int{big.NewInt(4), big.NewInt(3)}, pts.B[0])
	assert.Equal(t, [2]*big.Int{big.NewInt(6), big.NewInt(5)}, pts.B[1])
	assert.Equal(t, []*big.Int{big.NewInt(42), big.NewInt(43)}, signals)
}

func TestParseProofRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{`,
		"missing pi_b":      `{"proof":{"pi_a":["1","2"],"pi_c":["3","4"]},"pub_signals":[]}`,
		"negative value":    `{"proof":{"pi_a":["-1","2"],"pi_b":[["1","2"],["3","4"]],"pi_c":["3","4"]},"pub_signals":[]}`,
		"non numeric":       `{"proof":{"pi_a":["x","2"],"pi_b":[["1","2"],["3","4"]],"pi_c":["3","4"]},"pub_signals":[]}`,
		"short pi_b pair":   `{"proof":{"pi_a":["1","2"],"pi_b":[["1"],["3","4"]],"pi_c":["3","4"]},"pub_signals":[]}`,
		"bad public signal": `{"proof":{"pi_a":["1","2"],"pi_b":[["1","2"],["3","4"]],"pi_c":["3","4"]},"pub_signals":["0x1"]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseProof([]byte(raw))
			assert.ErrorIs(t, err, ErrInvalidProof)
		})
	}
}
