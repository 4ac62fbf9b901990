package handler

import "faceid/internal/claims/models"

type envelope[T any] struct {
	Data resource[T] `json:"data"`
}

type resource[T any] struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Attributes T      `json:"attributes"`
}

// EnrollResponse carries the canonical embedding string and credential id.
// UserID is the replaced identity and is omitted for new enrollments.
type EnrollResponse struct {
	Embedding string `json:"embedding"`
	ClaimID   string `json:"claim_id"`
	UserID    string `json:"user_id,omitempty"`
}

type PublicKeyResponse struct {
	PublicKey string `json:"public_key"`
	Metadata  string `json:"metadata"`
	UserID    string `json:"user_id"`
}

func fromEnrollResult(res *models.EnrollResult) envelope[EnrollResponse] {
	return envelope[EnrollResponse]{Data: resource[EnrollResponse]{
		ID:   1,
		Type: "embedding",
		Attributes: EnrollResponse{
			Embedding: res.Vector.String(),
			ClaimID:   res.CredentialID,
			UserID:    res.PreviousUserID,
		},
	}}
}

func fromClaim(c *models.Claim) envelope[PublicKeyResponse] {
	return envelope[PublicKeyResponse]{Data: resource[PublicKeyResponse]{
		ID:   1,
		Type: "pk",
		Attributes: PublicKeyResponse{
			PublicKey: c.PublicKey,
			Metadata:  c.Metadata,
			UserID:    c.UserID,
		},
	}}
}
