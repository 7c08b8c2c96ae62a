package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/powdercoat/erp-backend/api/responses"
	"github.com/powdercoat/erp-backend/api/validators"
	paymentsvc "github.com/powdercoat/erp-backend/internal/payments"
	"github.com/powdercoat/erp-backend/pkg/logger"
)

// CreatePayment records a payment against an order and returns the updated
// order view.
func CreatePayment(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload paymentsvc.PaymentInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Create(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithOrderID(r.Context(), payload.OrderID)
		logg.Info(ctx, "payment recorded")
		responses.WriteCreated(w, detail)
	}
}

// ListOrderPayments returns an order's payments, oldest first.
func ListOrderPayments(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathID(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
