package cache

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemory(t *testing.T) {
	ctx := context.Background()
	c := NewInMemory(time.Hour)
	hash := [32]byte{1, 2, 3}
	alice := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob := common.HexToAddress("0x00000000000000000000000000000000000000b2")

	ok, err := c.IsSubmitted(ctx, hash, alice)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.MarkSubmitted(ctx, hash, alice))

	ok, err = c.IsSubmitted(ctx, hash, alice)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsSubmitted(ctx, hash, bob)
	require.NoError(t, err)
	assert.False(t, ok, "answers are per submitter")
}

func TestKeyLayout(t *testing.T) {
	hash := [32]byte{0xff}
	k := key(hash, common.Address{})
	assert.Equal(t, "oracle:submitted:0000000000000000000000000000000000000000:ff", k[:len("oracle:submitted:")+40+3])
	assert.Len(t, k, len("oracle:submitted:")+40+1+64)
}
