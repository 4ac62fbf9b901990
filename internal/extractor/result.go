package extractor

import (
	"fmt"

	"faceid/pkg/vector"
)

// Status is the outcome of running face detection on one image.
type Status int

const (
	StatusSuccess Status = iota
	StatusNoFaceFound
	StatusTooManyPeople
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNoFaceFound:
		return "no_face_found"
	case StatusTooManyPeople:
		return "too_many_people"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

func parseStatus(s string) (Status, bool) {
	switch s {
	case "success":
		return StatusSuccess, true
	case "no_face_found":
		return StatusNoFaceFound, true
	case "too_many_people":
		return StatusTooManyPeople, true
	}
	return 0, false
}

// Result carries a vector only when Status is StatusSuccess.
type Result struct {
	status Status
	vec    vector.Continuous
}

// Success wraps an extracted embedding.
func Success(v vector.Continuous) Result {
	return Result{status: StatusSuccess, vec: v}
}

// NoFaceFound is the result for images without a detectable face.
func NoFaceFound() Result {
	return Result{status: StatusNoFaceFound}
}

// TooManyPeople is the result for images with more than one face.
func TooManyPeople() Result {
	return Result{status: StatusTooManyPeople}
}

func (r Result) Status() Status {
	return r.status
}

// Vector returns the embedding and true on success.
func (r Result) Vector() (vector.Continuous, bool) {
	if r.status != StatusSuccess {
		return nil, false
	}
	return r.vec, true
}

// Discrete converts a successful result into its discretized form; terminal
// statuses pass through unchanged.
func (r Result) Discrete() DiscreteResult {
	if r.status != StatusSuccess {
		return DiscreteResult{status: r.status}
	}
	return DiscreteResult{status: StatusSuccess, vec: vector.Discretize(r.vec)}
}

// DiscreteResult is Result for the discretized variant used on the contest path.
type DiscreteResult struct {
	status Status
	vec    vector.Discrete
}

func (r DiscreteResult) Status() Status {
	return r.status
}

// Vector returns the discrete embedding and true on success.
func (r DiscreteResult) Vector() (vector.Discrete, bool) {
	if r.status != StatusSuccess {
		return nil, false
	}
	return r.vec, true
}
