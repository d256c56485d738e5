package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// Protected routes answer 401 through the JWT middleware when no token is
// sent; an unregistered path would fall through to gin's 404 instead.
func TestProtectedRoutesAreRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	setupRoutes(r, nil, nil, nil)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/profile"},
		{http.MethodGet, "/v1/tickets"},
		{http.MethodGet, "/v1/tickets/some-id/qr"},
		{http.MethodGet, "/v1/notifications"},
		{http.MethodGet, "/v1/notifications/unread"},
		{http.MethodPut, "/v1/notifications/some-id"},
		{http.MethodPut, "/v1/notifications/some-id/read"},
		{http.MethodDelete, "/v1/notifications/some-id"},
		{http.MethodDelete, "/v1/notifications"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}
