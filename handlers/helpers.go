package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/parksidehq/portal/middleware"
)

func parseUUID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return id, nil
}

// requireDealership resolves the caller's tenant for a write. Tokens
// not bound to a dealership are refused; rows must never land under
// the zero tenant.
func requireDealership(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id := middleware.GetDealershipID(r)
	if id == uuid.Nil {
		http.Error(w, "Token is not bound to a dealership", http.StatusForbidden)
		return uuid.Nil, false
	}
	return id, true
}
