package models

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"faceid/pkg/vector"
)

// Participant is the local read cache of one registration. Rows are keyed by
// (ContestID, ImageHash) and never updated after insertion.
type Participant struct {
	ContestID     uint64
	ImageHash     string
	ImageContent  []byte
	Name          string
	RewardAddress string
	Proof         json.RawMessage
	FeatureVector vector.Discrete
	CreatedAt     time.Time
}

// ImageHash is the sha3-256 commitment of an image.
type ImageHash [32]byte

func (h ImageHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// RegisterRequest is the input of one contest registration.
type RegisterRequest struct {
	Image         []byte
	Proof         json.RawMessage
	Name          string
	RewardAddress string
}

// RegisterResult is what a registration returns to the caller.
type RegisterResult struct {
	ContestID     uint64
	Hash          ImageHash
	FeatureVector vector.Discrete
	// Published reports whether oracle transactions were sent for this image.
	Published bool
	// Registered reports whether a register transaction was sent.
	Registered bool
}

// Standing is one participant's score against the contest reference vector.
type Standing struct {
	Name       string
	Image      []byte
	Hash       string
	Distance   uint64
	Percentage float64
}

// Winner is set only once the ledger has chosen one.
type Winner struct {
	Name      string
	ImageHash string
}

// Standings is the scored view of the latest contest.
type Standings struct {
	ContestID    uint64
	WinningPool  int64
	StartTime    time.Time
	Duration     time.Duration
	Participants []Standing
	Winner       *Winner
}
