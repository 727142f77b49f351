package payroll

import (
	"fmt"
	"sort"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// Allocate splits one record's quantity and salary evenly across its active
// members. The record's explicit member list wins; an empty list falls back
// to the supplied roster. Shares are exact: quantity is attributed in
// milli-units and salary in minor units, with the division remainder spread
// one unit at a time over the first members, so the shares always sum back
// to the record totals with no drift.
func Allocate(rec ProductionRecord, roster []Member) ([]Share, error) {
	if rec.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if rec.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price must not be negative", ErrValidation)
	}

	active := rec.ActiveMemberIDs
	if len(active) == 0 {
		for _, m := range roster {
			active = append(active, m.ID)
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: record %d", ErrNoActiveMembers, rec.ID)
	}

	n := int64(len(active))
	qtyShares := splitEven(rec.Quantity*QtyScale, n)
	salaryShares := splitEven(int64(rec.TotalSalary()), n)

	shares := make([]Share, len(active))
	for i, id := range active {
		shares[i] = Share{
			MemberID:      id,
			QuantityMilli: qtyShares[i],
			Salary:        money.Amount(salaryShares[i]),
		}
	}
	return shares, nil
}

// splitEven divides total into n shares differing by at most one, preserving
// the sum exactly.
func splitEven(total, n int64) []int64 {
	base := total / n
	rem := total % n
	shares := make([]int64, n)
	for i := range shares {
		shares[i] = base
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares
}

// Summarize rolls a month's records for one group into per-(member, product)
// contributions and a MonthlySummary. Records that cannot be attributed are
// reported and contribute nothing, to either path: the group totals and the
// member totals are both computed over the same attributable records and
// therefore agree exactly.
func Summarize(group Group, month Month, records []ProductionRecord) (MonthlySummary, []Contribution, []RecordError) {
	summary := MonthlySummary{
		GroupID:   group.ID,
		GroupName: group.Name,
		Month:     month,
		Status:    StatusPending,
	}

	names := make(map[int64]string, len(group.Members))
	for _, m := range group.Members {
		names[m.ID] = m.Name
	}

	type key struct {
		memberID int64
		product  string
	}
	contrib := make(map[key]*Contribution)
	memberTotals := make(map[int64]*MemberSummary)
	var failed []RecordError

	for _, rec := range records {
		if rec.GroupID != group.ID || !month.Contains(rec.Date) {
			continue
		}
		shares, err := Allocate(rec, group.Members)
		if err != nil {
			failed = append(failed, RecordError{RecordID: rec.ID, Err: err})
			continue
		}

		summary.QuantityMilli += rec.Quantity * QtyScale
		summary.TotalSalary += rec.TotalSalary()

		for _, sh := range shares {
			k := key{memberID: sh.MemberID, product: rec.ProductCode}
			c, ok := contrib[k]
			if !ok {
				c = &Contribution{
					MemberID:    sh.MemberID,
					MemberName:  names[sh.MemberID],
					ProductCode: rec.ProductCode,
				}
				contrib[k] = c
			}
			c.QuantityMilli += sh.QuantityMilli
			c.Salary += sh.Salary

			mt, ok := memberTotals[sh.MemberID]
			if !ok {
				mt = &MemberSummary{MemberID: sh.MemberID, MemberName: names[sh.MemberID]}
				memberTotals[sh.MemberID] = mt
			}
			mt.QuantityMilli += sh.QuantityMilli
			mt.Salary += sh.Salary
		}
	}

	// Members with no attribution still appear with zero totals, matching
	// the payroll table the UI renders.
	for _, m := range group.Members {
		if _, ok := memberTotals[m.ID]; !ok {
			memberTotals[m.ID] = &MemberSummary{MemberID: m.ID, MemberName: m.Name}
		}
	}

	contributions := make([]Contribution, 0, len(contrib))
	for _, c := range contrib {
		contributions = append(contributions, *c)
	}
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].MemberID != contributions[j].MemberID {
			return contributions[i].MemberID < contributions[j].MemberID
		}
		return contributions[i].ProductCode < contributions[j].ProductCode
	})

	members := make([]MemberSummary, 0, len(memberTotals))
	for _, mt := range memberTotals {
		members = append(members, *mt)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].MemberID < members[j].MemberID })
	summary.Members = members

	return summary, contributions, failed
}
