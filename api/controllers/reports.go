package controllers

import (
	"net/http"

	"github.com/powdercoat/erp-backend/api/responses"
	"github.com/powdercoat/erp-backend/api/validators"
	ordersvc "github.com/powdercoat/erp-backend/internal/orders"
	reportsvc "github.com/powdercoat/erp-backend/internal/reports"
	"github.com/powdercoat/erp-backend/pkg/logger"
	"github.com/powdercoat/erp-backend/pkg/pagination"
)

// OutstandingReport lists orders that still have a balance due.
func OutstandingReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.Outstanding(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ProfitReport returns per-order and aggregate profit. Accepts from, to, and
// client_id query parameters.
func ProfitReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID, ok, err := validators.ParseQueryInt64(r, "client_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := reportsvc.ProfitFilters{From: from, To: to}
		if ok {
			filters.ClientID = &clientID
		}
		report, err := svc.Profit(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// PaymentMethodsReport groups profit totals by payment method.
func PaymentMethodsReport(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.PaymentMethods(r.Context(), reportsvc.MethodFilters{From: from, To: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// SearchOrdersReport finds orders by client name substring.
func SearchOrdersReport(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), ordersvc.ListFilters{
			ClientName: r.URL.Query().Get("client_name"),
			Pagination: pagination.Params{Limit: limit},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
