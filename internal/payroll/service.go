package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// RepositoryPort defines data access for payroll. Group membership is read
// only; it is owned by the groups module.
type RepositoryPort interface {
	GetGroup(ctx context.Context, groupID int64) (*Group, error)
	ListGroups(ctx context.Context) ([]Group, error)
	CreateRecord(ctx context.Context, rec ProductionRecord) (*ProductionRecord, error)
	ListRecords(ctx context.Context, groupID int64, month Month) ([]ProductionRecord, error)
	GetStatus(ctx context.Context, groupID int64, month Month) (Status, error)
	SetStatus(ctx context.Context, groupID int64, month Month, status Status) error
}

// Prices resolves a product's per-unit worker price.
type Prices interface {
	WorkerUnitPrice(ctx context.Context, code string) (money.Amount, bool, error)
}

// Enqueuer schedules a background refresh of cached summaries.
type Enqueuer interface {
	EnqueuePayrollRefresh(ctx context.Context, month string) error
}

// Service wraps the allocation engine with persistence, pricing, caching,
// and background refresh.
type Service struct {
	repo    RepositoryPort
	prices  Prices
	cache   *Cache
	enqueue Enqueuer
	logger  *slog.Logger
}

// NewService builds a Service. cache and enqueue may be nil.
func NewService(repo RepositoryPort, prices Prices, cache *Cache, enqueue Enqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, prices: prices, cache: cache, enqueue: enqueue, logger: logger}
}

// CreateRecordRequest proposes one production record. When ActiveMemberIDs
// is empty the group's current membership is snapshotted into the record, so
// later roster edits never change this record's attribution.
type CreateRecordRequest struct {
	GroupID         int64
	Date            time.Time
	ProductCode     string
	UnitPrice       *money.Amount
	Quantity        int64
	ActiveMemberIDs []int64
}

// AddRecord validates and persists one production record.
func (s *Service) AddRecord(ctx context.Context, req CreateRecordRequest) (*ProductionRecord, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if req.ProductCode == "" {
		return nil, fmt.Errorf("%w: product code required", ErrValidation)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date required", ErrValidation)
	}

	group, err := s.repo.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	rec := ProductionRecord{
		GroupID:     group.ID,
		Date:        req.Date,
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
	}

	if req.UnitPrice != nil {
		if req.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price must not be negative", ErrValidation)
		}
		rec.UnitPrice = *req.UnitPrice
	} else {
		price, found, err := s.prices.WorkerUnitPrice(ctx, req.ProductCode)
		if err != nil {
			return nil, fmt.Errorf("resolve worker price: %w", err)
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, req.ProductCode)
		}
		rec.UnitPrice = price
	}

	rec.ActiveMemberIDs, err = snapshotMembers(group, req.ActiveMemberIDs)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.CreateRecord(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("payroll cache bump failed", slog.Any("error", err))
	}
	if s.enqueue != nil {
		if err := s.enqueue.EnqueuePayrollRefresh(ctx, string(MonthOf(rec.Date))); err != nil {
			s.logger.Warn("enqueue payroll refresh failed", slog.Any("error", err))
		}
	}
	return stored, nil
}

// snapshotMembers resolves the record's active-member set at creation time.
// An explicit list must be a subset of the group's current members; an empty
// list snapshots the full current roster.
func snapshotMembers(group *Group, explicit []int64) ([]int64, error) {
	known := make(map[int64]bool, len(group.Members))
	for _, m := range group.Members {
		known[m.ID] = true
	}

	if len(explicit) == 0 {
		if len(group.Members) == 0 {
			return nil, fmt.Errorf("%w: group %d has no members", ErrNoActiveMembers, group.ID)
		}
		ids := make([]int64, 0, len(group.Members))
		for _, m := range group.Members {
			ids = append(ids, m.ID)
		}
		return ids, nil
	}

	seen := make(map[int64]bool, len(explicit))
	ids := make([]int64, 0, len(explicit))
	for _, id := range explicit {
		if !known[id] {
			return nil, fmt.Errorf("%w: member %d not in group %d", ErrUnknownMember, id, group.ID)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// GroupSummary returns the cached monthly summary for one group.
func (s *Service) GroupSummary(ctx context.Context, groupID int64, month Month) (*MonthlySummary, error) {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	key, err := s.cache.BuildKey(ctx, keyGroupSummary(groupID, month)...)
	if err != nil {
		return nil, err
	}
	var summary MonthlySummary
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		built, _, err := s.buildGroupSummary(ctx, groupID, month)
		if err != nil {
			return nil, err
		}
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Contributions returns the per-(member, product) rollup for one group and
// month, uncached.
func (s *Service) Contributions(ctx context.Context, groupID int64, month Month) ([]Contribution, error) {
	_, contributions, err := s.buildGroupSummary(ctx, groupID, month)
	return contributions, err
}

// MonthlySummaries returns cached summaries for every group in a month.
func (s *Service) MonthlySummaries(ctx context.Context, month Month) ([]MonthlySummary, error) {
	key, err := s.cache.BuildKey(ctx, keyMonthSummaries(month)...)
	if err != nil {
		return nil, err
	}
	var summaries []MonthlySummary
	err = s.cache.FetchJSON(ctx, key, &summaries, func(ctx context.Context) (interface{}, error) {
		return s.buildMonthSummaries(ctx, month)
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *Service) buildGroupSummary(ctx context.Context, groupID int64, month Month) (*MonthlySummary, []Contribution, error) {
	group, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.repo.ListRecords(ctx, groupID, month)
	if err != nil {
		return nil, nil, err
	}

	summary, contributions, failed := Summarize(*group, month, records)
	for _, f := range failed {
		s.logger.Warn("production record not attributable",
			slog.Int64("record_id", f.RecordID), slog.Any("error", f.Err))
	}

	status, err := s.repo.GetStatus(ctx, groupID, month)
	if err != nil {
		return nil, nil, err
	}
	summary.Status = status
	return &summary, contributions, nil
}

func (s *Service) buildMonthSummaries(ctx context.Context, month Month) ([]MonthlySummary, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]MonthlySummary, 0, len(groups))
	for _, g := range groups {
		summary, _, err := s.buildGroupSummary(ctx, g.ID, month)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// MarkPaid flips the group's monthly payroll status to Paid. Idempotent; no
// ledger reconciliation is triggered, the flag is informational.
func (s *Service) MarkPaid(ctx context.Context, groupID int64, month Month) error {
	return s.setStatus(ctx, groupID, month, StatusPaid)
}

// MarkPending flips the group's monthly payroll status back to Pending.
func (s *Service) MarkPending(ctx context.Context, groupID int64, month Month) error {
	return s.setStatus(ctx, groupID, month, StatusPending)
}

func (s *Service) setStatus(ctx context.Context, groupID int64, month Month, status Status) error {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return err
	}
	current, err := s.repo.GetStatus(ctx, groupID, month)
	if err != nil {
		return err
	}
	if current == status {
		return nil
	}
	if err := s.repo.SetStatus(ctx, groupID, month, status); err != nil {
		return err
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("payroll cache bump failed", slog.Any("error", err))
	}
	return nil
}

// RefreshMonth recomputes and re-caches every group's summary for a month.
// Used by the background worker; per-group computation fans out bounded by
// errgroup.
func (s *Service) RefreshMonth(ctx context.Context, month Month) error {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return err
	}

	// The derived context is canceled as soon as Wait returns, so it must
	// not leak into the summary rebuild below.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, group := range groups {
		g.Go(func() error {
			_, err := s.GroupSummary(gctx, group.ID, month)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	_, err = s.MonthlySummaries(ctx, month)
	return err
}
