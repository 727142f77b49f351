package groups

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryGroupRepo struct {
	nextGroupID  int64
	nextMemberID int64
	groups       map[int64]*Group
	withRecords  map[int64]bool
}

func newMemoryGroupRepo() *memoryGroupRepo {
	return &memoryGroupRepo{
		nextGroupID:  1,
		nextMemberID: 1,
		groups:       make(map[int64]*Group),
		withRecords:  make(map[int64]bool),
	}
}

func (r *memoryGroupRepo) Create(_ context.Context, name string, members []string) (*Group, error) {
	g := &Group{ID: r.nextGroupID, Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.nextGroupID++
	for _, memberName := range members {
		g.Members = append(g.Members, Member{
			ID: r.nextMemberID, GroupID: g.ID, Name: memberName, CreatedAt: time.Now(),
		})
		r.nextMemberID++
	}
	r.groups[g.ID] = g
	copied := *g
	return &copied, nil
}

func (r *memoryGroupRepo) Get(_ context.Context, id int64) (*Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (r *memoryGroupRepo) List(_ context.Context) ([]Group, error) {
	var out []Group
	for id := int64(1); id < r.nextGroupID; id++ {
		if g, ok := r.groups[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *memoryGroupRepo) Rename(_ context.Context, id int64, name string) error {
	g, ok := r.groups[id]
	if !ok {
		return ErrNotFound
	}
	g.Name = name
	return nil
}

func (r *memoryGroupRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.groups[id]; !ok {
		return ErrNotFound
	}
	if r.withRecords[id] {
		return ErrHasRecords
	}
	delete(r.groups, id)
	return nil
}

func (r *memoryGroupRepo) AddMember(_ context.Context, groupID int64, name string) (*Member, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return nil, ErrNotFound
	}
	m := Member{ID: r.nextMemberID, GroupID: groupID, Name: name, CreatedAt: time.Now()}
	r.nextMemberID++
	g.Members = append(g.Members, m)
	return &m, nil
}

func (r *memoryGroupRepo) RemoveMember(_ context.Context, groupID, memberID int64) error {
	g, ok := r.groups[groupID]
	if !ok {
		return ErrNotFound
	}
	for i, m := range g.Members {
		if m.ID == memberID {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return nil
		}
	}
	return ErrMemberNotFound
}

type countingInvalidator struct {
	bumps int
}

func (c *countingInvalidator) Bump(context.Context) error {
	c.bumps++
	return nil
}

type failingInvalidator struct{}

func (failingInvalidator) Bump(context.Context) error {
	return errors.New("redis down")
}

func TestFailedBumpIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewService(newMemoryGroupRepo(), failingInvalidator{}, logger)

	group, err := svc.Create(context.Background(), CreateGroupRequest{Name: "Group 1"})
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), group.ID, AddMemberRequest{Name: "Lan"})
	require.NoError(t, err)

	require.Contains(t, buf.String(), "payroll cache bump failed")
	require.Contains(t, buf.String(), "redis down")
}

func TestCreateGroupWithInitialMembers(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(newMemoryGroupRepo(), inv, slog.Default())

	group, err := svc.Create(context.Background(), CreateGroupRequest{
		Name:    "Group 1",
		Members: []string{"Lan", "Minh"},
	})
	require.NoError(t, err)
	require.Len(t, group.Members, 2)
	require.Equal(t, "Lan", group.Members[0].Name)
	require.Equal(t, 1, inv.bumps)
}

func TestAddAndRemoveMember(t *testing.T) {
	inv := &countingInvalidator{}
	svc := NewService(newMemoryGroupRepo(), inv, slog.Default())

	group, err := svc.Create(context.Background(), CreateGroupRequest{Name: "Group 1"})
	require.NoError(t, err)

	member, err := svc.AddMember(context.Background(), group.ID, AddMemberRequest{Name: "Lan"})
	require.NoError(t, err)
	require.Equal(t, group.ID, member.GroupID)

	err = svc.RemoveMember(context.Background(), group.ID, member.ID)
	require.NoError(t, err)

	err = svc.RemoveMember(context.Background(), group.ID, member.ID)
	require.ErrorIs(t, err, ErrMemberNotFound)

	// create + add + remove, failed remove does not bump
	require.Equal(t, 3, inv.bumps)
}

func TestAddMemberUnknownGroup(t *testing.T) {
	svc := NewService(newMemoryGroupRepo(), nil, slog.Default())

	_, err := svc.AddMember(context.Background(), 42, AddMemberRequest{Name: "Lan"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteGroupWithRecordsRejected(t *testing.T) {
	repo := newMemoryGroupRepo()
	svc := NewService(repo, nil, slog.Default())

	group, err := svc.Create(context.Background(), CreateGroupRequest{Name: "Group 1"})
	require.NoError(t, err)
	repo.withRecords[group.ID] = true

	err = svc.Delete(context.Background(), group.ID)
	require.ErrorIs(t, err, ErrHasRecords)
}

func TestRenameGroup(t *testing.T) {
	svc := NewService(newMemoryGroupRepo(), nil, slog.Default())

	group, err := svc.Create(context.Background(), CreateGroupRequest{Name: "Group 1"})
	require.NoError(t, err)

	renamed, err := svc.Rename(context.Background(), group.ID, RenameGroupRequest{Name: "Evening Shift"})
	require.NoError(t, err)
	require.Equal(t, "Evening Shift", renamed.Name)

	_, err = svc.Rename(context.Background(), 42, RenameGroupRequest{Name: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}
