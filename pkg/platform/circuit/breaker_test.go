package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_Defaults(t *testing.T) {
	b := New("issuer")
	assert.Equal(t, "issuer", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())

	for i := 0; i < 4; i++ {
		useFallback, _ := b.RecordFailure()
		assert.False(t, useFallback)
	}
	useFallback, change := b.RecordFailure()
	assert.True(t, useFallback)
	assert.True(t, change.Opened)
	assert.Equal(t, "open", b.State().String())
}

func TestBreaker_HalfwaySuccessesDoNotClose(t *testing.T) {
	b := New("ledger", WithFailureThreshold(2), WithSuccessThreshold(2))
	b.RecordFailure()
	b.RecordFailure()
	assert.True(t, b.IsOpen())

	usePrimary, change := b.RecordSuccess()
	assert.False(t, usePrimary)
	assert.False(t, change.Closed)

	// a failure while open restarts the success streak
	useFallback, change2 := b.RecordFailure()
	assert.True(t, useFallback)
	assert.False(t, change2.Opened)

	b.RecordSuccess()
	assert.True(t, b.IsOpen())
	usePrimary, change = b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
	assert.False(t, b.IsOpen())
}

func TestBreaker_ClosedSuccessClearsFailures(t *testing.T) {
	b := New("issuer", WithFailureThreshold(2))
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.False(t, b.IsOpen())
}

func TestBreaker_IgnoresInvalidOptions(t *testing.T) {
	b := New("issuer", WithFailureThreshold(0), nil)
	b.RecordFailure()
	assert.False(t, b.IsOpen())

	b.Reset()
	assert.Equal(t, StateClosed, b.State())
}
