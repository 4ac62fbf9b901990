// Package vector holds the fixed-length feature vector types and the distance
// arithmetic shared by identity resolution and contest scoring.
//
// Two scales exist and they never mix:
//
//   - Continuous vectors come straight from the embedding model (roughly [-1, 1]).
//     Identity equality is decided on this scale with Threshold.
//   - Discrete vectors are the on-ledger representation (0..MaxDiscrete). Contest
//     scoring runs on this scale with integer arithmetic so that displayed
//     distances agree with the contract's calculateDistance.
package vector

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Dimension is the length of every feature vector.
const Dimension = 128

// MaxDiscrete is the largest value a discretized component can take.
const MaxDiscrete = 254

// Threshold is the continuous-scale identity threshold. Two vectors belong to
// the same identity when their squared distance is below Threshold².
const Threshold = 0.3

// Contest scoring bounds on the discrete scale.
const (
	DefaultMinDistance uint64 = 5_000
	DefaultMaxDistance uint64 = 15_000
)

const discreteScale = 127

// ErrDimensionMismatch is returned when two vectors of different lengths are
// compared or when a vector does not have Dimension components.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// ErrOutOfRange is returned when a discrete component is outside 0..MaxDiscrete.
var ErrOutOfRange = errors.New("vector component out of range")

// Continuous is a feature vector in model output form.
type Continuous []float64

// Discrete is a feature vector in on-ledger form.
type Discrete []uint8

// ParseContinuous validates the length of raw model output.
func ParseContinuous(values []float64) (Continuous, error) {
	if len(values) != Dimension {
		return nil, fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, len(values), Dimension)
	}
	out := make(Continuous, Dimension)
	copy(out, values)
	return out, nil
}

// ParseDiscrete validates length and range of an integer vector.
func ParseDiscrete(values []int) (Discrete, error) {
	if len(values) != Dimension {
		return nil, fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, len(values), Dimension)
	}
	out := make(Discrete, Dimension)
	for i, v := range values {
		if v < 0 || v > MaxDiscrete {
			return nil, fmt.Errorf("%w: component %d is %d", ErrOutOfRange, i, v)
		}
		out[i] = uint8(v)
	}
	return out, nil
}

// FromArray converts the ledger's uint8[128] representation.
func FromArray(a [Dimension]uint8) Discrete {
	out := make(Discrete, Dimension)
	copy(out, a[:])
	return out
}

// Array converts d to the ledger's uint8[128] representation.
func (d Discrete) Array() ([Dimension]uint8, error) {
	var out [Dimension]uint8
	if len(d) != Dimension {
		return out, fmt.Errorf("%w: got %d components, want %d", ErrDimensionMismatch, len(d), Dimension)
	}
	copy(out[:], d)
	return out, nil
}

// Ints widens d for JSON encoding and SQL integer arrays.
func (d Discrete) Ints() []int64 {
	out := make([]int64, len(d))
	for i, v := range d {
		out[i] = int64(v)
	}
	return out
}

// Discretize maps each component with round((c+1)*127), clamped to 0..MaxDiscrete.
// NaN components map to 0.
func Discretize(c Continuous) Discrete {
	out := make(Discrete, len(c))
	for i, v := range c {
		scaled := math.Round((v + 1) * discreteScale)
		switch {
		case !(scaled >= 0):
			out[i] = 0
		case scaled > MaxDiscrete:
			out[i] = MaxDiscrete
		default:
			out[i] = uint8(scaled)
		}
	}
	return out
}

// SquaredDistance returns the sum of squared component differences.
func SquaredDistance(a, b Continuous) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum, nil
}

// DiscreteSquaredDistance is the integer counterpart of SquaredDistance. The
// result matches the contest contract's calculateDistance bit for bit.
func DiscreteSquaredDistance(a, b Discrete) (uint64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(a), len(b))
	}
	var sum uint64
	for i := range a {
		var d uint64
		if a[i] > b[i] {
			d = uint64(a[i] - b[i])
		} else {
			d = uint64(b[i] - a[i])
		}
		sum += d * d
	}
	return sum, nil
}

// IsSameIdentity reports whether a and b are closer than Threshold.
func IsSameIdentity(a, b Continuous) (bool, error) {
	d, err := SquaredDistance(a, b)
	if err != nil {
		return false, err
	}
	return d < Threshold*Threshold, nil
}

// SimilarityPercent maps a discrete distance to a score in [0, 100].
func SimilarityPercent(distance, dMin, dMax uint64) float64 {
	if distance <= dMin {
		return 100
	}
	if distance >= dMax {
		return 0
	}
	return (1 - float64(distance-dMin)/float64(dMax-dMin)) * 100
}

// String renders the canonical form "[v0, v1, ...]". Persisted claims and the
// issuer's embedding hash are both derived from it, so it must stay stable.
func (c Continuous) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range c {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatComponent(v))
	}
	b.WriteByte(']')
	return b.String()
}

func formatComponent(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}

// ParseContinuousString reads the canonical form produced by String.
func ParseContinuousString(s string) (Continuous, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return ParseContinuous(nil)
	}
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parse component %d: %w", i, err)
		}
		values[i] = v
	}
	return ParseContinuous(values)
}
