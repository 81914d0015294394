package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestWithRole(t *testing.T, role string) *http.Request {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{"role": role})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	return req.WithContext(jwtauth.NewContext(req.Context(), token, nil))
}

func TestRequireManager(t *testing.T) {
	cases := []struct {
		role   string
		status int
	}{
		{"manager", http.StatusOK},
		{"owner", http.StatusOK},
		{"employee", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireManager(okHandler).ServeHTTP(rec, requestWithRole(t, tc.role))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireOwner(t *testing.T) {
	cases := []struct {
		role   string
		status int
	}{
		{"owner", http.StatusOK},
		{"manager", http.StatusForbidden},
		{"employee", http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequireOwner(okHandler).ServeHTTP(rec, requestWithRole(t, tc.role))
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRequireManagerWithoutToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	RequireManager(okHandler).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
