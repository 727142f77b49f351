package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// RepositoryPort defines data access for accounts and their entries.
type RepositoryPort interface {
	GetAccount(ctx context.Context, accountID int64) (*Account, error)
	// AppendEntry persists the entry and the new balances atomically. The
	// expected balances are compared against the stored row under a lock;
	// a mismatch returns ErrStaleBalance and persists nothing.
	AppendEntry(ctx context.Context, expected Balances, entry Entry, after Balances) error
	ListEntries(ctx context.Context, accountID int64, from, to *time.Time) ([]Entry, error)
}

// Prices resolves a product's unit price agreed with customers.
type Prices interface {
	CustomerUnitPrice(ctx context.Context, code string) (money.Amount, bool, error)
}

// Service wraps the pure engine with persistence and catalog pricing.
type Service struct {
	repo   RepositoryPort
	prices Prices
	now    func() time.Time
	newID  func() uuid.UUID
}

// Option customises Service construction.
type Option func(*Service)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides the entry ID source, for tests.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Service) { s.newID = gen }
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, prices Prices, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		prices: prices,
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendRequest proposes one transaction against an account. ExpectedDebt,
// when set, is the debt balance the caller last observed; the append is
// rejected with ErrStaleBalance if the account has moved since.
type AppendRequest struct {
	AccountID    int64
	Intent       Intent
	ExpectedDebt *money.Amount
}

// AppendTransaction validates, computes, and persists one ledger entry,
// returning the stored entry and the account's post-transaction balances.
// On any error nothing is persisted and the account is unchanged.
func (s *Service) AppendTransaction(ctx context.Context, req AppendRequest) (*Entry, Balances, error) {
	account, err := s.repo.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, Balances{}, err
	}
	if req.ExpectedDebt != nil && *req.ExpectedDebt != account.Balances.Debt {
		return nil, Balances{}, fmt.Errorf("%w: expected debt %d, current %d",
			ErrStaleBalance, *req.ExpectedDebt, account.Balances.Debt)
	}

	intent, err := s.resolveIntent(ctx, req.Intent)
	if err != nil {
		return nil, Balances{}, err
	}

	entry, after, err := Apply(account.Balances, intent, EntryMeta{
		ID:        s.newID(),
		AccountID: account.ID,
		At:        s.now().UTC(),
	})
	if err != nil {
		return nil, Balances{}, err
	}

	if err := s.repo.AppendEntry(ctx, account.Balances, entry, after); err != nil {
		return nil, Balances{}, err
	}
	return &entry, after, nil
}

// resolveIntent fills in the shipment unit price from the catalog when the
// caller did not supply one.
func (s *Service) resolveIntent(ctx context.Context, in Intent) (Intent, error) {
	ship, ok := in.(ShipmentIntent)
	if !ok || ship.UnitPrice > 0 {
		return in, nil
	}
	if ship.ProductCode == "" {
		return nil, errValidation("shipment product code required")
	}
	price, found, err := s.prices.CustomerUnitPrice(ctx, ship.ProductCode)
	if err != nil {
		return nil, fmt.Errorf("resolve unit price: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, ship.ProductCode)
	}
	ship.UnitPrice = price
	return ship, nil
}

// CurrentDebt returns the account's running debt balance.
func (s *Service) CurrentDebt(ctx context.Context, accountID int64) (money.Amount, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Balances.Debt, nil
}

// CurrentDeposit returns the account's running prepaid-deposit balance.
func (s *Service) CurrentDeposit(ctx context.Context, accountID int64) (money.Amount, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.Balances.Deposit, nil
}

// History returns the account's entries in insertion order, oldest first,
// optionally bounded by [from, to].
func (s *Service) History(ctx context.Context, accountID int64, from, to *time.Time) ([]Entry, error) {
	if _, err := s.repo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, accountID, from, to)
}

// Verify replays the full entry chain from the opening balance and checks it
// reproduces the stored balances exactly.
func (s *Service) Verify(ctx context.Context, accountID int64) error {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	entries, err := s.repo.ListEntries(ctx, accountID, nil, nil)
	if err != nil {
		return err
	}
	replayed, err := Replay(Balances{Debt: account.OpeningDebt}, entries)
	if err != nil {
		return err
	}
	if replayed != account.Balances {
		return fmt.Errorf("%w: replayed %+v, stored %+v", ErrReplayMismatch, replayed, account.Balances)
	}
	return nil
}
