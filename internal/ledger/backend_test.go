package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291"

// fakeBackend answers view calls from canned outputs and mines every sent
// transaction immediately unless withholdReceipts is set.
type fakeBackend struct {
	mu               sync.Mutex
	outputs          map[string][]any
	callErr          error
	sent             []*types.Transaction
	withholdReceipts bool
	receiptStatus    uint64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		outputs:       map[string][]any{},
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (f *fakeBackend) respond(method string, values ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[method] = values
}

func (f *fakeBackend) sentCalls(t *testing.T) []decodedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]decodedCall, 0, len(f.sent))
	for _, tx := range f.sent {
		m, err := methodByID(tx.Data())
		require.NoError(t, err)
		args, err := m.Inputs.Unpack(tx.Data()[4:])
		require.NoError(t, err)
		out = append(out, decodedCall{Method: m.Name, Args: args, Tx: tx})
	}
	return out
}

type decodedCall struct {
	Method string
	Args   []any
	Tx     *types.Transaction
}

func methodByID(data []byte) (*abi.Method, error) {
	if len(data) < 4 {
		return nil, errors.New("short calldata")
	}
	if m, err := oracleABI.MethodById(data[:4]); err == nil {
		return m, nil
	}
	return contestABI.MethodById(data[:4])
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	m, err := methodByID(msg.Data)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	values, ok := f.outputs[m.Name]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no canned output for %s", m.Name)
	}
	return m.Outputs.Pack(values...)
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (f *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 21_000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	return nil
}

func (f *fakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]types.Log, error) {
	return nil, nil
}

func (f *fakeBackend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- types.Log) (ethereum.Subscription, error) {
	return nil, errors.New("subscriptions not supported")
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.withholdReceipts {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{TxHash: hash, Status: f.receiptStatus, BlockNumber: big.NewInt(1)}, nil
}

func newTestClient(t *testing.T, backend Backend, opts ...Option) *Client {
	t.Helper()
	key, err := ParsePrivateKey("0x" + testKeyHex)
	require.NoError(t, err)
	return NewClient(backend, key, big.NewInt(1337), opts...)
}
