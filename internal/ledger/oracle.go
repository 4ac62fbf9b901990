package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"faceid/pkg/vector"
)

const oracleContract = "FeatureVectorOracle"

// Round is the oracle's bookkeeping for one commitment hash.
type Round struct {
	StartTime      time.Time
	RoundTime      time.Duration
	ValidationTime time.Duration
	Finalized      bool
}

// Oracle binds the feature vector oracle contract.
type Oracle struct {
	client   *Client
	address  common.Address
	contract *bind.BoundContract
}

// NewOracle binds the oracle deployed at address.
func NewOracle(client *Client, address string) (*Oracle, error) {
	addr, err := parseAddress("oracle", address)
	if err != nil {
		return nil, err
	}
	return &Oracle{
		client:   client,
		address:  addr,
		contract: client.boundContract(addr, oracleABI),
	}, nil
}

// Submitter is the address this service votes as.
func (o *Oracle) Submitter() common.Address {
	return o.client.From()
}

// Submit casts a vote for hash and waits for the receipt.
func (o *Oracle) Submit(ctx context.Context, hash [32]byte, v vector.Discrete) error {
	arr, err := v.Array()
	if err != nil {
		return &Error{Contract: oracleContract, Method: "submit", Err: err}
	}
	_, err = o.client.transact(ctx, oracleContract, o.contract, "submit", hash, arr)
	return err
}

// FinalizeRound closes voting for hash and waits for the receipt.
func (o *Oracle) FinalizeRound(ctx context.Context, hash [32]byte) error {
	_, err := o.client.transact(ctx, oracleContract, o.contract, "finalizeRound", hash)
	return err
}

// IsOracleSubmitted reports whether submitter already voted on hash.
func (o *Oracle) IsOracleSubmitted(ctx context.Context, hash [32]byte, submitter common.Address) (bool, error) {
	out, err := o.client.call(ctx, oracleContract, o.contract, "isOracleSubmitted", hash, submitter)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

// FeatureVector reads the finalized vector for hash.
func (o *Oracle) FeatureVector(ctx context.Context, hash [32]byte) (vector.Discrete, error) {
	out, err := o.client.call(ctx, oracleContract, o.contract, "getFeatureVector", hash)
	if err != nil {
		return nil, err
	}
	arr := *abi.ConvertType(out[0], new([vector.Dimension]uint8)).(*[vector.Dimension]uint8)
	return vector.FromArray(arr), nil
}

// Round reads the oracle round for hash.
func (o *Oracle) Round(ctx context.Context, hash [32]byte) (Round, error) {
	out, err := o.client.call(ctx, oracleContract, o.contract, "rounds", hash)
	if err != nil {
		return Round{}, err
	}
	if len(out) != 4 {
		return Round{}, &Error{Contract: oracleContract, Method: "rounds", Err: fmt.Errorf("unexpected output arity %d", len(out))}
	}
	start := *abi.ConvertType(out[0], new(uint64)).(*uint64)
	roundTime := *abi.ConvertType(out[1], new(uint64)).(*uint64)
	validation := *abi.ConvertType(out[2], new(uint64)).(*uint64)
	return Round{
		StartTime:      time.Unix(int64(start), 0).UTC(),
		RoundTime:      time.Duration(roundTime) * time.Second,
		ValidationTime: time.Duration(validation) * time.Second,
		Finalized:      *abi.ConvertType(out[3], new(bool)).(*bool),
	}, nil
}
