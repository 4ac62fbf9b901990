package issuer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faceid/pkg/platform/circuit"
	"faceid/pkg/platform/sentinel"
)

const issuerDID = "did:iden3:polygon:mumbai:issuer"

func TestCreateCredential(t *testing.T) {
	attrs := CredentialAttributes{
		UserID:    "user-1",
		Embedding: "ab12",
		PublicKey: "pk-1",
		DID:       "did:iden3:user",
		Metadata:  `{"k":"v"}`,
	}

	t.Run("returns the issued credential id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/"+issuerDID+"/claims", r.URL.Path)

			var body createCredentialRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, CredentialType, body.Type)
			assert.Equal(t, attrs, body.CredentialSubject)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"cred-42"}`))
		}))
		defer srv.Close()

		id, err := New(srv.URL, issuerDID, time.Second).CreateCredential(context.Background(), attrs)
		require.NoError(t, err)
		assert.Equal(t, "cred-42", id)
	})

	t.Run("client errors are not retryable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"invalid did"}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, issuerDID, time.Second).CreateCredential(context.Background(), attrs)
		var issErr *Error
		require.ErrorAs(t, err, &issErr)
		assert.Equal(t, http.StatusBadRequest, issErr.StatusCode)
		assert.False(t, issErr.Retryable)
		assert.Contains(t, err.Error(), "invalid did")
	})

	t.Run("missing id is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		_, err := New(srv.URL, issuerDID, time.Second).CreateCredential(context.Background(), attrs)
		assert.Error(t, err)
	})
}

func TestRevokeCredential(t *testing.T) {
	t.Run("posts to the revoke path", func(t *testing.T) {
		var hit atomic.Bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/"+issuerDID+"/claims/cred-1/revoke", r.URL.Path)
			hit.Store(true)
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		err := New(srv.URL, issuerDID, time.Second).RevokeCredential(context.Background(), "cred-1")
		require.NoError(t, err)
		assert.True(t, hit.Load())
	})

	t.Run("empty credential id is rejected locally", func(t *testing.T) {
		err := New("http://127.0.0.1:1", issuerDID, time.Second).RevokeCredential(context.Background(), "")
		assert.Error(t, err)
	})
}

func TestCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := New(srv.URL, issuerDID, time.Second,
		WithBreaker(circuit.New("issuer", circuit.WithFailureThreshold(2))),
		WithCooldown(time.Minute),
		WithClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		err := c.RevokeCredential(ctx, "cred-1")
		var issErr *Error
		require.ErrorAs(t, err, &issErr)
		assert.True(t, issErr.Retryable)
	}
	assert.Equal(t, int32(2), calls.Load())

	t.Run("open circuit fails fast", func(t *testing.T) {
		err := c.RevokeCredential(ctx, "cred-1")
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("probe goes through after cooldown", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		err := c.RevokeCredential(ctx, "cred-1")
		assert.NotErrorIs(t, err, sentinel.ErrUnavailable)
		assert.Equal(t, int32(3), calls.Load())
	})
}
