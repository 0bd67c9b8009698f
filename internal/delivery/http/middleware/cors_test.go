package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS(next)

	t.Run("preflight", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodOptions, "/calendar", nil)
		req.Header.Set("Origin", "https://app.example.com")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNoContent, rr.Code)
		assert.False(t, called)
		assert.Empty(t, rr.Body.String())
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	})

	t.Run("any origin on regular request", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodPost, "/calendar", nil)
		req.Header.Set("Origin", "https://elsewhere.example.org")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, called)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
