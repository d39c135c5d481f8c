package expenses

import (
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

// MountRoutes registers expense endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := ListExpensesRequest{Limit: 50}
	if from := r.URL.Query().Get("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			req.From = parsed
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			req.To = parsed
		}
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}

	result, err := h.service.List(r.Context(), *actor, req)
	if err != nil {
		h.logger.Error("list expenses", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]any{"expenses": result})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	exp, err := h.service.Get(r.Context(), *actor, id)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, exp)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	exp, err := h.service.Create(r.Context(), *actor, req)
	if err != nil {
		h.logger.Error("create expense", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to create expense")
		return
	}
	shared.RespondJSON(w, http.StatusCreated, exp)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := h.service.Delete(r.Context(), *actor, id); err != nil {
		h.respondLookupError(w, err)
		return
	}
	shared.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		shared.RespondError(w, http.StatusNotFound, "expense not found")
	case errors.Is(err, shared.ErrForbidden):
		shared.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		h.logger.Error("expense lookup", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
