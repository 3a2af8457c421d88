package shared_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvollan/identity-api/internal/api/shared"
)

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Username string `json:"username"`
	}

	t.Run("decodes a valid document", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"alice"}`))

		var p payload
		require.NoError(t, shared.DecodeJSON(req, &p))
		assert.Equal(t, "alice", p.Username)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))

		var p payload
		assert.Error(t, shared.DecodeJSON(req, &p))
	})
}

func TestReadRawBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain value", "abc123", "abc123"},
		{"surrounding whitespace trimmed", "  abc123  \n", "abc123"},
		{"quotes preserved", `"abc123"`, `"abc123"`},
		{"empty body", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			got, err := shared.ReadRawBody(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	type payload struct {
		Username string `validate:"required"`
	}

	assert.NoError(t, shared.ValidateRequest(payload{Username: "alice"}))
	assert.Error(t, shared.ValidateRequest(payload{}))
}
