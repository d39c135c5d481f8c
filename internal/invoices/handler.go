package invoices

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/shared"
)

type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers invoice endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Post("/{id}/send", h.Send)
	r.Post("/{id}/void", h.Void)
	r.Get("/{id}/payments", h.Payments)
	r.Post("/{id}/payments", h.RecordPayment)
}

type createInvoiceRequest struct {
	ClientID   int64   `json:"client_id" validate:"required,gt=0"`
	Number     string  `json:"number" validate:"omitempty,max=50"`
	CurrencyID int64   `json:"currency_id" validate:"required,gt=0"`
	Subtotal   float64 `json:"subtotal" validate:"gte=0"`
	TaxAmount  float64 `json:"tax_amount" validate:"gte=0"`
	IssuedAt   string  `json:"issued_at" validate:"omitempty,datetime=2006-01-02"`
	DueAt      string  `json:"due_at" validate:"required,datetime=2006-01-02"`
}

type recordPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	PaidAt string  `json:"paid_at" validate:"omitempty,datetime=2006-01-02"`
	Method string  `json:"method" validate:"required,max=50"`
	Note   string  `json:"note" validate:"max=500"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := ListInvoicesRequest{Limit: 50}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = InvoiceStatus(status)
	}
	if c := r.URL.Query().Get("client_id"); c != "" {
		if parsed, err := strconv.ParseInt(c, 10, 64); err == nil {
			req.ClientID = parsed
		}
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			req.FromDate = parsed
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			req.ToDate = parsed
		}
	}

	result, err := h.service.List(r.Context(), *actor, req)
	if err != nil {
		h.logger.Error("list invoices", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load invoices")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"invoices": result})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	inv, err := h.service.Get(r.Context(), *actor, id)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, inv)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := CreateInvoiceInput{
		ClientID:   req.ClientID,
		Number:     req.Number,
		CurrencyID: req.CurrencyID,
		Subtotal:   req.Subtotal,
		TaxAmount:  req.TaxAmount,
	}
	if req.IssuedAt != "" {
		input.IssuedAt, _ = time.Parse("2006-01-02", req.IssuedAt)
	}
	input.DueAt, _ = time.Parse("2006-01-02", req.DueAt)

	inv, err := h.service.Create(r.Context(), *actor, input)
	if err != nil {
		h.logger.Error("create invoice", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to create invoice")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, inv)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Send)
}

func (h *Handler) Void(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Void)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, actor shared.Actor, id int64) error) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}
	if err := fn(r.Context(), *actor, id); err != nil {
		h.respondLookupError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	payments, err := h.service.Payments(r.Context(), *actor, id)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	input := CreatePaymentInput{
		InvoiceID: id,
		Amount:    req.Amount,
		Method:    req.Method,
		Note:      req.Note,
	}
	if req.PaidAt != "" {
		input.PaidAt, _ = time.Parse("2006-01-02", req.PaidAt)
	}

	p, err := h.service.RecordPayment(r.Context(), *actor, input)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusCreated, p)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "invoice not found")
	case errors.Is(err, shared.ErrForbidden):
		shared.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		h.logger.Error("invoice lookup", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
