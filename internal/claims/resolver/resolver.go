// Package resolver decides whether an embedding belongs to an identity that
// already holds a claim.
package resolver

import (
	"math"

	"faceid/internal/claims/models"
	"faceid/pkg/vector"
)

// FindNearest scans claims linearly and returns the closest one with its
// squared distance. Ties keep the first claim seen. An empty set yields
// (nil, +Inf).
func FindNearest(v vector.Continuous, claims []models.Claim) (*models.Claim, float64, error) {
	var (
		nearest *models.Claim
		best    = math.Inf(1)
	)
	for i := range claims {
		d, err := vector.SquaredDistance(v, claims[i].Vector)
		if err != nil {
			return nil, 0, err
		}
		if d < best {
			best = d
			nearest = &claims[i]
		}
	}
	return nearest, best, nil
}

// Resolve returns the claim of the same identity as v, or nil when the
// nearest claim is not close enough.
func Resolve(v vector.Continuous, claims []models.Claim) (*models.Claim, error) {
	nearest, _, err := FindNearest(v, claims)
	if err != nil || nearest == nil {
		return nil, err
	}
	same, err := vector.IsSameIdentity(v, nearest.Vector)
	if err != nil {
		return nil, err
	}
	if !same {
		return nil, nil
	}
	return nearest, nil
}
