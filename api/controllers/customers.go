package controllers

import (
	"net/http"
	"strings"

	"github.com/freshmart/freshmart-backend/api/responses"
	"github.com/freshmart/freshmart-backend/api/validators"
	customersvc "github.com/freshmart/freshmart-backend/internal/customers"
	pkgerrors "github.com/freshmart/freshmart-backend/pkg/errors"
	"github.com/freshmart/freshmart-backend/pkg/logger"
	"github.com/freshmart/freshmart-backend/pkg/pagination"
)

// ListCustomers serves the admin member directory.
func ListCustomers(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), customersvc.ListParams{
			Query:  validators.SanitizeString(r.URL.Query().Get("q"), 120),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GetCustomerProfile shows any member's profile, tier included, to staff.
func GetCustomerProfile(svc customersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer service unavailable"))
			return
		}

		customerID, err := validators.ParseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Profile(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
