package groups

import (
	"context"
	"fmt"
	"log/slog"
)

// Repository defines data access for groups and members.
type Repository interface {
	Create(ctx context.Context, name string, members []string) (*Group, error)
	Get(ctx context.Context, id int64) (*Group, error)
	List(ctx context.Context) ([]Group, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, groupID int64, name string) (*Member, error)
	RemoveMember(ctx context.Context, groupID, memberID int64) error
}

// Invalidator drops cached payroll summaries after roster edits. Summaries
// list idle members with zero rows, so membership changes are visible there
// even though past records keep their snapshots.
type Invalidator interface {
	Bump(ctx context.Context) error
}

type Service struct {
	repo   Repository
	cache  Invalidator
	logger *slog.Logger
}

// NewService builds a Service. cache may be nil.
func NewService(repo Repository, cache Invalidator, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) Create(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	group, err := s.repo.Create(ctx, req.Name, req.Members)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	s.invalidate(ctx)
	return group, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Group, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Group, error) {
	return s.repo.List(ctx)
}

func (s *Service) Rename(ctx context.Context, id int64, req RenameGroupRequest) (*Group, error) {
	if err := s.repo.Rename(ctx, id, req.Name); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.Get(ctx, id)
}

// Delete removes a group without production history.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) AddMember(ctx context.Context, groupID int64, req AddMemberRequest) (*Member, error) {
	if _, err := s.repo.Get(ctx, groupID); err != nil {
		return nil, err
	}
	member, err := s.repo.AddMember(ctx, groupID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	s.invalidate(ctx)
	return member, nil
}

func (s *Service) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	if err := s.repo.RemoveMember(ctx, groupID, memberID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	// Invalidation failure only delays convergence, never blocks the write.
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("payroll cache bump failed", slog.Any("error", err))
	}
}
