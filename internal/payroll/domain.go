// Package payroll derives per-worker quantity and salary attribution from
// group-level daily production records, and rolls those attributions up into
// monthly per-group summaries.
package payroll

import (
	"errors"
	"fmt"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// QtyScale is the fixed-point scale for attributed quantities. A record's
// whole-unit quantity splits across members in thousandths of a unit so that
// member shares always sum back to the record total exactly.
const QtyScale = 1000

// Member is one worker inside a group.
type Member struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Group is a named set of members. Membership is owned by the group
// management module; payroll only reads it.
type Group struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

// ProductionRecord is one group's output of one product on one date. The
// active-member set is snapshotted at creation time: records persisted by
// this module always carry explicit member IDs, so later roster edits never
// rewrite past attribution.
type ProductionRecord struct {
	ID              int64        `json:"id"`
	GroupID         int64        `json:"group_id"`
	Date            time.Time    `json:"date"`
	ProductCode     string       `json:"product_code"`
	UnitPrice       money.Amount `json:"unit_price"`
	Quantity        int64        `json:"quantity"`
	ActiveMemberIDs []int64      `json:"active_member_ids"`
}

// TotalSalary is the record's full worker-salary value.
func (r ProductionRecord) TotalSalary() money.Amount {
	return r.UnitPrice.MulQty(r.Quantity)
}

// Share is one member's attribution from a single record.
type Share struct {
	MemberID      int64        `json:"member_id"`
	QuantityMilli int64        `json:"quantity_milli"`
	Salary        money.Amount `json:"salary"`
}

// Contribution is the per-(member, product) rollup across records in scope.
type Contribution struct {
	MemberID      int64        `json:"member_id"`
	MemberName    string       `json:"member_name"`
	ProductCode   string       `json:"product_code"`
	QuantityMilli int64        `json:"quantity_milli"`
	Salary        money.Amount `json:"salary"`
}

// Status enumerates monthly payroll payment states.
type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
)

// MemberSummary is one member's monthly totals inside a group.
type MemberSummary struct {
	MemberID      int64        `json:"member_id"`
	MemberName    string       `json:"member_name"`
	QuantityMilli int64        `json:"quantity_milli"`
	Salary        money.Amount `json:"salary"`
}

// MonthlySummary is the rolled-up totals and payment status for one group
// over one calendar month. Status is the only independently settable field.
type MonthlySummary struct {
	GroupID       int64           `json:"group_id"`
	GroupName     string          `json:"group_name"`
	Month         Month           `json:"month"`
	QuantityMilli int64           `json:"quantity_milli"`
	TotalSalary   money.Amount    `json:"total_salary"`
	Status        Status          `json:"status"`
	Members       []MemberSummary `json:"members"`
}

// RecordError reports a record the engine could not attribute.
type RecordError struct {
	RecordID int64
	Err      error
}

func (e RecordError) Error() string {
	return fmt.Sprintf("payroll: record %d: %v", e.RecordID, e.Err)
}

func (e RecordError) Unwrap() error { return e.Err }

// Month identifies a calendar month as "YYYY-MM".
type Month string

// ParseMonth validates the month format.
func ParseMonth(raw string) (Month, error) {
	if _, err := time.Parse("2006-01", raw); err != nil {
		return "", fmt.Errorf("%w: month must be YYYY-MM, got %q", ErrValidation, raw)
	}
	return Month(raw), nil
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month(t.Format("2006-01"))
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

var (
	// ErrValidation indicates malformed or missing record fields.
	ErrValidation = errors.New("payroll: validation failed")
	// ErrNoActiveMembers indicates a production record with zero resolvable
	// active members; the record contributes nothing rather than being
	// silently attributed.
	ErrNoActiveMembers = errors.New("payroll: no active members")
	// ErrGroupNotFound indicates a reference to a nonexistent group.
	ErrGroupNotFound = errors.New("payroll: group not found")
	// ErrUnknownMember indicates a record referencing a member outside the
	// group at creation time.
	ErrUnknownMember = errors.New("payroll: unknown member")
	// ErrProductNotFound indicates a product code that does not resolve.
	ErrProductNotFound = errors.New("payroll: product not found")
	// ErrInvalidStatus indicates an unsupported payroll status value.
	ErrInvalidStatus = errors.New("payroll: invalid status")
)
