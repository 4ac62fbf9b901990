package models

import (
	"time"

	"github.com/google/uuid"

	"faceid/pkg/vector"
)

// ClaimStatus is derived from the submitted flag; it is never stored.
type ClaimStatus string

const (
	// ClaimStatusPending marks a row whose credential was never confirmed by
	// the issuer and needs reconciliation.
	ClaimStatusPending ClaimStatus = "pending"
	ClaimStatusIssued  ClaimStatus = "issued"
)

// Claim binds a user identity to a face embedding and an issuer credential.
// Rows are mutated in place on revoke-and-replace and never deleted.
type Claim struct {
	ID           uuid.UUID
	UserID       string
	Vector       vector.Continuous
	Metadata     string
	PublicKey    string
	CredentialID string
	Submitted    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Status reports whether the claim still awaits issuance.
func (c *Claim) Status() ClaimStatus {
	if c.Submitted {
		return ClaimStatusIssued
	}
	return ClaimStatusPending
}

// Replacement carries the fields overwritten when an enrollment resolves to
// an existing claim.
type Replacement struct {
	UserID    string
	Vector    vector.Continuous
	Metadata  string
	PublicKey string
}

// EnrollRequest is the input of one enrollment.
type EnrollRequest struct {
	Image     []byte
	DID       string
	UserID    string
	PublicKey string
	Metadata  string
}

// EnrollResult is returned after a credential has been issued and recorded.
// PreviousUserID is set only when an existing claim was replaced.
type EnrollResult struct {
	ClaimID        uuid.UUID
	CredentialID   string
	Vector         vector.Continuous
	PreviousUserID string
	Updated        bool
}
