// Package handlers contains the HTTP handlers for the admin API. Handlers
// decode and validate request bodies, resolve the caller's tenant from the
// authenticated context and delegate to the application services.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/hakrNJN/user-management-service-sub001/pkg/auth"
	"github.com/hakrNJN/user-management-service-sub001/pkg/common"
	"github.com/hakrNJN/user-management-service-sub001/pkg/utils"
)

// decodeAndValidate parses the JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "invalid request body: "+err.Error())
		return false
	}
	if err := utils.ValidateStruct(dst); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return false
	}
	return true
}

// tenantFrom resolves the caller's tenant. The auth middleware guarantees a
// user context on every API route, so a miss here is a wiring bug.
func tenantFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return "", false
	}
	return user.TenantID, true
}
