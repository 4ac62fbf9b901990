// Package cache remembers positive "already submitted" answers from the
// oracle contract. A vote is immutable once written, so a positive answer
// never goes stale; negative answers are never cached.
package cache

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
)

const keyPrefix = "oracle:submitted:"

func key(hash [32]byte, submitter common.Address) string {
	return keyPrefix + hex.EncodeToString(submitter.Bytes()) + ":" + hex.EncodeToString(hash[:])
}
