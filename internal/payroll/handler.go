package payroll

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

// Handler exposes payroll as a JSON API.
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

type createRecordRequest struct {
	GroupID         int64   `json:"group_id" validate:"required,gt=0"`
	Date            string  `json:"date" validate:"required"`
	ProductCode     string  `json:"product_code" validate:"required,max=50"`
	UnitPrice       *int64  `json:"unit_price,omitempty" validate:"omitempty,gte=0"`
	Quantity        int64   `json:"quantity" validate:"gte=0"`
	ActiveMemberIDs []int64 `json:"active_member_ids,omitempty"`
}

// CreateRecord handles POST /records.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req createRecordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	createReq := CreateRecordRequest{
		GroupID:         req.GroupID,
		Date:            date,
		ProductCode:     req.ProductCode,
		Quantity:        req.Quantity,
		ActiveMemberIDs: req.ActiveMemberIDs,
	}
	if req.UnitPrice != nil {
		price := money.Amount(*req.UnitPrice)
		createReq.UnitPrice = &price
	}

	rec, err := h.service.AddRecord(r.Context(), createReq)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, rec)
}

// MonthSummaries handles GET /summaries?month=YYYY-MM.
func (h *Handler) MonthSummaries(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	summaries, err := h.service.MonthlySummaries(r.Context(), month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if summaries == nil {
		summaries = []MonthlySummary{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"month": month, "summaries": summaries})
}

// GroupSummary handles GET /groups/{id}/summary?month=YYYY-MM.
func (h *Handler) GroupSummary(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid group id")
		return
	}
	month, err := monthParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	summary, err := h.service.GroupSummary(r.Context(), groupID, month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

// GroupContributions handles GET /groups/{id}/contributions?month=YYYY-MM.
func (h *Handler) GroupContributions(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid group id")
		return
	}
	month, err := monthParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	contributions, err := h.service.Contributions(r.Context(), groupID, month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if contributions == nil {
		contributions = []Contribution{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"month": month, "contributions": contributions})
}

// DailyProductions handles GET /daily?month=YYYY-MM.
func (h *Handler) DailyProductions(w http.ResponseWriter, r *http.Request) {
	month, err := monthParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rows, err := h.service.DailyProductions(r.Context(), month)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if rows == nil {
		rows = []DailyProduction{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"month": month, "production": rows})
}

type setStatusRequest struct {
	Month  string `json:"month" validate:"required"`
	Status string `json:"status" validate:"required,oneof=Paid Pending"`
}

// SetStatus handles POST /groups/{id}/status.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid group id")
		return
	}
	var req setStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	month, err := ParseMonth(req.Month)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if Status(req.Status) == StatusPaid {
		err = h.service.MarkPaid(r.Context(), groupID, month)
	} else {
		err = h.service.MarkPending(r.Context(), groupID, month)
	}
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func monthParam(r *http.Request) (Month, error) {
	raw := r.URL.Query().Get("month")
	if raw == "" {
		return MonthOf(time.Now()), nil
	}
	return ParseMonth(raw)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGroupNotFound), errors.Is(err, ErrProductNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnknownMember), errors.Is(err, ErrInvalidStatus):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNoActiveMembers):
		httpx.Problem(w, http.StatusUnprocessableEntity, "No Active Members", err.Error())
	default:
		h.logger.Error("payroll request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
