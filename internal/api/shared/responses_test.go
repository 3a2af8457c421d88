package shared_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvollan/identity-api/internal/api/shared"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/users", nil)

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	t.Run("includes the trace ID when present", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users/1", nil)
		r = r.WithContext(shared.SetTraceID(r.Context()))

		shared.RespondWithError(w, r, http.StatusNotFound, "User not found")

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "User not found", resp.Error)
		assert.NotEmpty(t, resp.TraceID)
	})

	t.Run("omits the trace ID when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users/1", nil)

		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "trace_id")
	})

	t.Run("the numeric code is not serialized", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/users/1", nil)

		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid ID")

		var raw map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&raw))
		assert.NotContains(t, raw, "Code")
		assert.NotContains(t, raw, "code")
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/usersLogin", nil)

	err := errors.New("pq: connection to host=db.internal failed")
	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// The raw error stays out of the response body.
	assert.NotContains(t, w.Body.String(), "db.internal")

	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "An unexpected error occurred", resp.Error)
}
