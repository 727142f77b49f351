package customers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchdesk/stitchdesk/internal/money"
	"github.com/stitchdesk/stitchdesk/internal/platform/httpx"
	"github.com/stitchdesk/stitchdesk/internal/shared"
)

// Handler exposes the customer directory as a JSON API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	format   *money.Formatter
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, format *money.Formatter) *Handler {
	return &Handler{logger: logger, service: service, format: format, validate: validator.New()}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	customer, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer id")
		return
	}
	var req UpdateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	customer, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer id")
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := customerResponse{Customer: *customer}
	if h.format != nil {
		display := customer.Currency
		if code := r.URL.Query().Get("display"); code != "" {
			parsed, err := money.ParseCurrency(code)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
				return
			}
			display = parsed
		}
		lang := money.Lang(r.URL.Query().Get("lang"))
		resp.DebtDisplay = h.format.Format(customer.DebtBalance, customer.Currency, display, lang)
		resp.DepositDisplay = h.format.Format(customer.DepositBalance, customer.Currency, display, lang)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

type customerResponse struct {
	Customer
	DebtDisplay    string `json:"debt_display,omitempty"`
	DepositDisplay string `json:"deposit_display,omitempty"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	req := ListCustomersRequest{Limit: limit, Offset: offset}
	if search := r.URL.Query().Get("search"); search != "" {
		req.Search = &search
	}
	if building := r.URL.Query().Get("building"); building != "" {
		req.Building = &building
	}

	customers, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if customers == nil {
		customers = []Customer{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"customers":  customers,
		"pagination": shared.NewPagination(offset/limit+1, limit, total),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid customer id")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrHasEntries):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, money.ErrUnknownCurrency):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("customers request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
