package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stitchdesk/stitchdesk/internal/money"
	"github.com/stitchdesk/stitchdesk/internal/platform/httpx"
)

// Handler exposes the ledger as a JSON API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

type appendTransactionRequest struct {
	Kind            string     `json:"kind" validate:"required,oneof=payment deposit shipment"`
	Description     string     `json:"description,omitempty" validate:"max=500"`
	Amount          *int64     `json:"amount,omitempty" validate:"omitempty,gte=0"`
	Method          string     `json:"method,omitempty" validate:"omitempty,oneof=cash card"`
	DepositChange   *int64     `json:"deposit_change,omitempty"`
	ProductCode     string     `json:"product_code,omitempty" validate:"omitempty,max=50"`
	PlannedShipDate *time.Time `json:"planned_ship_date,omitempty"`
	Quantity        *int64     `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	UnitPrice       *int64     `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	DepositApplied  *int64     `json:"deposit_applied,omitempty" validate:"omitempty,gte=0"`
	ExpectedDebt    *int64     `json:"expected_debt,omitempty"`
}

type appendTransactionResponse struct {
	Entry    Entry    `json:"entry"`
	Balances Balances `json:"balances"`
}

// Append handles POST /{id}/transactions.
func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}

	var req appendTransactionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	intent, err := req.toIntent()
	if err != nil {
		h.respondError(w, err)
		return
	}

	appendReq := AppendRequest{AccountID: accountID, Intent: intent}
	if req.ExpectedDebt != nil {
		expected := money.Amount(*req.ExpectedDebt)
		appendReq.ExpectedDebt = &expected
	}

	entry, balances, err := h.service.AppendTransaction(r.Context(), appendReq)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, appendTransactionResponse{Entry: *entry, Balances: balances})
}

func (req appendTransactionRequest) toIntent() (Intent, error) {
	switch Kind(req.Kind) {
	case KindPayment:
		if req.Amount == nil {
			return nil, errValidation("payment amount required")
		}
		return PaymentIntent{
			Amount:      money.Amount(*req.Amount),
			Method:      PaymentMethod(req.Method),
			Description: req.Description,
		}, nil
	case KindDeposit:
		if req.DepositChange == nil {
			return nil, errValidation("deposit change required")
		}
		return DepositIntent{
			Change:          money.Amount(*req.DepositChange),
			Method:          PaymentMethod(req.Method),
			ProductCode:     req.ProductCode,
			PlannedShipDate: req.PlannedShipDate,
			Description:     req.Description,
		}, nil
	case KindShipment:
		if req.Quantity == nil {
			return nil, errValidation("shipment quantity required")
		}
		intent := ShipmentIntent{
			ProductCode: req.ProductCode,
			Quantity:    *req.Quantity,
			Description: req.Description,
		}
		if req.UnitPrice != nil {
			intent.UnitPrice = money.Amount(*req.UnitPrice)
		}
		if req.DepositApplied != nil {
			intent.DepositApplied = money.Amount(*req.DepositApplied)
		}
		return intent, nil
	default:
		return nil, errValidation("unknown transaction kind")
	}
}

// History handles GET /{id}/transactions.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}
	from, err := parseTimeParam(r, "from")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid from date")
		return
	}
	to, err := parseTimeParam(r, "to")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid to date")
		return
	}

	entries, err := h.service.History(r.Context(), accountID, from, to)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// Balance handles GET /{id}/balance.
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}
	debt, err := h.service.CurrentDebt(r.Context(), accountID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	deposit, err := h.service.CurrentDeposit(r.Context(), accountID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, Balances{Debt: debt, Deposit: deposit})
}

// Verify handles GET /{id}/verify, replaying the entry chain.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	accountID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid account id")
		return
	}
	if err := h.service.Verify(r.Context(), accountID); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "consistent"})
}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrInsufficientDeposit):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Insufficient Deposit", err.Error())
	case errors.Is(err, ErrStaleBalance):
		httpx.Problem(w, http.StatusConflict, "Stale Balance", err.Error())
	case errors.Is(err, ErrReplayMismatch):
		httpx.Problem(w, http.StatusConflict, "Replay Mismatch", err.Error())
	default:
		h.logger.Error("ledger request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
