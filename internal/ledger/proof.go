package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidProof is returned for proof JSON that cannot be mapped onto the
// verifier's points.
var ErrInvalidProof = errors.New("invalid proof")

// Proof is a Groth16 proof as emitted by snarkjs, with its public signals.
type Proof struct {
	Proof struct {
		PiA []string   `json:"pi_a"`
		PiB [][]string `json:"pi_b"`
		PiC []string   `json:"pi_c"`
	} `json:"proof"`
	PubSignals []string `json:"pub_signals"`
}

// ProofPoints mirrors the verifier's ProofPoints tuple.
type ProofPoints struct {
	A [2]*big.Int
	B [2][2]*big.Int
	C [2]*big.Int
}

// ParseProof decodes raw proof JSON.
func ParseProof(raw []byte) (*Proof, error) {
	var p Proof
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if _, _, err := p.Points(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Points converts the proof into verifier arguments. Each pi_b pair is
// swapped, matching the precompile's (imaginary, real) G2 encoding. Only the
// first two coordinates of each point are used; snarkjs appends a projective 1.
func (p *Proof) Points() (ProofPoints, []*big.Int, error) {
	var pts ProofPoints
	if len(p.Proof.PiA) < 2 || len(p.Proof.PiC) < 2 || len(p.Proof.PiB) < 2 {
		return pts, nil, fmt.Errorf("%w: missing proof coordinates", ErrInvalidProof)
	}
	for i := 0; i < 2; i++ {
		a, err := parseUint(p.Proof.PiA[i])
		if err != nil {
			return pts, nil, err
		}
		c, err := parseUint(p.Proof.PiC[i])
		if err != nil {
			return pts, nil, err
		}
		pts.A[i], pts.C[i] = a, c

		pair := p.Proof.PiB[i]
		if len(pair) < 2 {
			return pts, nil, fmt.Errorf("%w: pi_b[%d] needs two coordinates", ErrInvalidProof, i)
		}
		re, err := parseUint(pair[0])
		if err != nil {
			return pts, nil, err
		}
		im, err := parseUint(pair[1])
		if err != nil {
			return pts, nil, err
		}
		pts.B[i] = [2]*big.Int{im, re}
	}

	signals := make([]*big.Int, 0, len(p.PubSignals))
	for _, s := range p.PubSignals {
		v, err := parseUint(s)
		if err != nil {
			return pts, nil, err
		}
		signals = append(signals, v)
	}
	return pts, signals, nil
}

func parseUint(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q is not an unsigned integer", ErrInvalidProof, s)
	}
	return v, nil
}
