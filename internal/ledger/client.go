// Package ledger binds the feature vector oracle and contest contracts.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	defaultGasLimit       = 20_000_000
	defaultReceiptTimeout = 2 * time.Minute
)

// Backend is the subset of ethclient.Client the bindings use.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Client signs transactions with one key and waits for their receipts.
type Client struct {
	backend        Backend
	key            *ecdsa.PrivateKey
	chainID        *big.Int
	from           common.Address
	gasLimit       uint64
	receiptTimeout time.Duration
	closer         func()
}

// Option configures a Client.
type Option func(*Client)

// WithGasLimit sets the gas limit attached to every transaction.
func WithGasLimit(limit uint64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.gasLimit = limit
		}
	}
}

// WithReceiptTimeout bounds every receipt wait.
func WithReceiptTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.receiptTimeout = d
		}
	}
}

// Dial connects to a JSON-RPC endpoint and resolves its chain id.
func Dial(ctx context.Context, rpcURL, privateKeyHex string, opts ...Option) (*Client, error) {
	key, err := ParsePrivateKey(privateKeyHex)
	if err != nil {
		return nil, err
	}
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}
	c := NewClient(eth, key, chainID, opts...)
	c.closer = eth.Close
	return c, nil
}

// NewClient wraps an existing backend.
func NewClient(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, opts ...Option) *Client {
	c := &Client{
		backend:        backend,
		key:            key,
		chainID:        chainID,
		from:           crypto.PubkeyToAddress(key.PublicKey),
		gasLimit:       defaultGasLimit,
		receiptTimeout: defaultReceiptTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParsePrivateKey accepts a hex key with or without the 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	return key, nil
}

// From is the address transactions are sent from.
func (c *Client) From() common.Address {
	return c.from
}

// Close releases the RPC connection when the client was dialed.
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
	}
}

func (c *Client) boundContract(address common.Address, parsed abi.ABI) *bind.BoundContract {
	return bind.NewBoundContract(address, parsed, c.backend, c.backend, c.backend)
}

func (c *Client) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx, From: c.from}
}

// transactOpts builds a fresh signer per call; gas price is zero on the
// permissioned network.
func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	opts.Context = ctx
	opts.GasPrice = big.NewInt(0)
	opts.GasLimit = c.gasLimit
	return opts, nil
}

// transact sends method and blocks until its receipt arrives or the receipt
// timeout elapses.
func (c *Client) transact(ctx context.Context, contractName string, contract *bind.BoundContract, method string, args ...any) (*types.Receipt, error) {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return nil, &Error{Contract: contractName, Method: method, Err: err}
	}
	tx, err := contract.Transact(opts, method, args...)
	if err != nil {
		return nil, &Error{Contract: contractName, Method: method, Err: err}
	}
	return c.waitMined(ctx, contractName, method, tx)
}

func (c *Client) waitMined(ctx context.Context, contractName, method string, tx *types.Transaction) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, c.backend, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = ErrTimeout
		}
		return nil, &Error{Contract: contractName, Method: method, TxHash: tx.Hash().Hex(), Err: err}
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, &Error{Contract: contractName, Method: method, TxHash: tx.Hash().Hex(), Err: ErrReverted}
	}
	return receipt, nil
}

func (c *Client) call(ctx context.Context, contractName string, contract *bind.BoundContract, method string, args ...any) ([]any, error) {
	var out []any
	if err := contract.Call(c.callOpts(ctx), &out, method, args...); err != nil {
		return nil, &Error{Contract: contractName, Method: method, Err: err}
	}
	return out, nil
}

func parseAddress(kind, hex string) (common.Address, error) {
	if !common.IsHexAddress(hex) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", kind, hex)
	}
	return common.HexToAddress(hex), nil
}

func mustParseABI(raw []byte) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		panic(fmt.Sprintf("parse embedded abi: %v", err))
	}
	return parsed
}
