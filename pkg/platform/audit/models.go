// Package audit records the identity and contest actions that change what a
// face resolves to, so revocations and replacements can be traced later.
package audit

import (
	"context"
	"time"
)

// Category classifies events for retention and routing.
type Category string

const (
	// CategoryCompliance covers changes to which identity a face is bound to.
	CategoryCompliance Category = "compliance"
	// CategoryOperations covers routine activity.
	CategoryOperations Category = "operations"
)

// Action names what happened.
type Action string

const (
	ActionClaimEnrolled          Action = "claim_enrolled"
	ActionIdentityReplaced       Action = "identity_replaced"
	ActionCredentialRevoked      Action = "credential_revoked"
	ActionCredentialRevokeFailed Action = "credential_revoke_failed"

	ActionContestCreated        Action = "contest_created"
	ActionContestFinalized      Action = "contest_finalized"
	ActionParticipantRegistered Action = "participant_registered"
)

var actionCategories = map[Action]Category{
	ActionClaimEnrolled:          CategoryCompliance,
	ActionIdentityReplaced:       CategoryCompliance,
	ActionCredentialRevoked:      CategoryCompliance,
	ActionCredentialRevokeFailed: CategoryCompliance,
}

// Category returns the category of the action. Unlisted actions are
// operational.
func (a Action) Category() Category {
	if c, ok := actionCategories[a]; ok {
		return c
	}
	return CategoryOperations
}

// Event is one audited action. Subject identifies what was acted on: a
// claim id, a contest id or an image hash. Detail never carries vectors or
// image bytes.
type Event struct {
	Action    Action
	Subject   string
	RequestID string
	Detail    map[string]string
	Timestamp time.Time
}

// Store persists events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
