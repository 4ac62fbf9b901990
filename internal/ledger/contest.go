package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"faceid/pkg/vector"
)

const contestContract = "Contest"

// ContestInfo is the on-ledger view of a contest. Winner is all zeros until
// the contest is finalized.
type ContestInfo struct {
	Reference vector.Discrete
	StartTime time.Time
	Duration  time.Duration
	Winner    [32]byte
}

// HasWinner reports whether Winner differs from the zero sentinel.
func (i ContestInfo) HasWinner() bool {
	return i.Winner != [32]byte{}
}

// Contest binds the contest contract.
type Contest struct {
	client   *Client
	address  common.Address
	contract *bind.BoundContract
}

// NewContest binds the contest deployed at address.
func NewContest(client *Client, address string) (*Contest, error) {
	addr, err := parseAddress("contest", address)
	if err != nil {
		return nil, err
	}
	return &Contest{
		client:   client,
		address:  addr,
		contract: client.boundContract(addr, contestABI),
	}, nil
}

// CreateContest opens a contest scored against reference for duration.
func (c *Contest) CreateContest(ctx context.Context, reference vector.Discrete, duration time.Duration) error {
	arr, err := reference.Array()
	if err != nil {
		return &Error{Contract: contestContract, Method: "createContest", Err: err}
	}
	_, err = c.client.transact(ctx, contestContract, c.contract, "createContest", arr, uint64(duration/time.Second))
	return err
}

// Register enrolls a participant commitment with its proof.
func (c *Contest) Register(ctx context.Context, contestID uint64, hash [32]byte, reward common.Address, proof *Proof) error {
	points, signals, err := proof.Points()
	if err != nil {
		return &Error{Contract: contestContract, Method: "register", Err: err}
	}
	_, err = c.client.transact(ctx, contestContract, c.contract, "register",
		new(big.Int).SetUint64(contestID), hash, reward, points, signals)
	return err
}

// FinalizeContest closes the contest and records its winner.
func (c *Contest) FinalizeContest(ctx context.Context, contestID uint64) error {
	_, err := c.client.transact(ctx, contestContract, c.contract, "finalizeContest", new(big.Int).SetUint64(contestID))
	return err
}

// ContestInfo reads the reference vector, schedule and winner.
func (c *Contest) ContestInfo(ctx context.Context, contestID uint64) (ContestInfo, error) {
	out, err := c.client.call(ctx, contestContract, c.contract, "getContestInfo", new(big.Int).SetUint64(contestID))
	if err != nil {
		return ContestInfo{}, err
	}
	ref := *abi.ConvertType(out[0], new([vector.Dimension]uint8)).(*[vector.Dimension]uint8)
	start := *abi.ConvertType(out[1], new(uint64)).(*uint64)
	duration := *abi.ConvertType(out[2], new(uint64)).(*uint64)
	return ContestInfo{
		Reference: vector.FromArray(ref),
		StartTime: time.Unix(int64(start), 0).UTC(),
		Duration:  time.Duration(duration) * time.Second,
		Winner:    *abi.ConvertType(out[3], new([32]byte)).(*[32]byte),
	}, nil
}

// IsParticipantRegistered reports whether hash is registered in contestID.
func (c *Contest) IsParticipantRegistered(ctx context.Context, contestID uint64, hash [32]byte) (bool, error) {
	out, err := c.client.call(ctx, contestContract, c.contract, "isParticipantRegistered", new(big.Int).SetUint64(contestID), hash)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// LatestContestID returns the id of the most recently created contest.
// The contract stores the next id to assign.
func (c *Contest) LatestContestID(ctx context.Context) (uint64, error) {
	out, err := c.client.call(ctx, contestContract, c.contract, "lastContestId")
	if err != nil {
		return 0, err
	}
	next := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	if next == nil || next.Sign() == 0 {
		return 0, &Error{Contract: contestContract, Method: "lastContestId", Err: ErrNoContest}
	}
	return new(big.Int).Sub(next, big.NewInt(1)).Uint64(), nil
}

// ChooseWinner evaluates the contract's winner selection without sending a transaction.
func (c *Contest) ChooseWinner(ctx context.Context, contestID uint64) ([32]byte, error) {
	out, err := c.client.call(ctx, contestContract, c.contract, "chooseWinner", new(big.Int).SetUint64(contestID))
	if err != nil {
		return [32]byte{}, err
	}
	return *abi.ConvertType(out[0], new([32]byte)).(*[32]byte), nil
}

// CalculateDistance runs the contract's pure distance function.
func (c *Contest) CalculateDistance(ctx context.Context, features, reference vector.Discrete) (uint64, error) {
	a, err := features.Array()
	if err != nil {
		return 0, &Error{Contract: contestContract, Method: "calculateDistance", Err: err}
	}
	b, err := reference.Array()
	if err != nil {
		return 0, &Error{Contract: contestContract, Method: "calculateDistance", Err: err}
	}
	out, err := c.client.call(ctx, contestContract, c.contract, "calculateDistance", a, b)
	if err != nil {
		return 0, err
	}
	d := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)
	return d.Uint64(), nil
}
