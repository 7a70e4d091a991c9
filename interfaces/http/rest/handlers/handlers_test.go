package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/hakrNJN/user-management-service-sub001/pkg/auth"
	"github.com/hakrNJN/user-management-service-sub001/pkg/common"
)

// newRequest builds an authenticated request with chi URL params attached,
// the way the router does before a handler runs.
func newRequest(t *testing.T, method, target, body string, params map[string]string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))

	ctx := auth.SetUserInContext(req.Context(), &auth.UserContext{
		UserID:   "admin-1",
		TenantID: "acme",
		Roles:    []string{"admin"},
	})

	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

	return req.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) common.APIResponse {
	t.Helper()
	var envelope common.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}
