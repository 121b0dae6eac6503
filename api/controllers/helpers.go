package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/freshmart/freshmart-backend/api/middleware"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
)

// authedCustomerID resolves the authenticated customer from the request
// context. Handlers behind the auth middleware can rely on it being set.
func authedCustomerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return id, nil
}
