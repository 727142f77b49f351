// Package groups manages worker groups and their membership. Payroll reads
// these rows and snapshots the active member set when a production record is
// created, so edits here never rewrite past attribution.
package groups

import (
	"errors"
	"time"
)

type Member struct {
	ID        int64     `json:"id"`
	GroupID   int64     `json:"group_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNotFound       = errors.New("groups: group not found")
	ErrMemberNotFound = errors.New("groups: member not found")
	ErrHasRecords     = errors.New("groups: group has production records")
)
