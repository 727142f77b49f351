package payroll

import (
	"context"
	"sort"
	"time"

	"github.com/stitchdesk/stitchdesk/internal/money"
)

// DailyProduction is one row of the production coordination view: one
// product on one work day, broken out by which group made how much.
type DailyProduction struct {
	Date            time.Time       `json:"date"`
	ProductCode     string          `json:"product_code"`
	UnitPrice       money.Amount    `json:"unit_price"`
	QuantityByGroup map[int64]int64 `json:"quantity_by_group"`
	TotalQuantity   int64           `json:"total_quantity"`
	TotalSalary     money.Amount    `json:"total_salary"`
}

// DailyProductions aggregates a month's production records by work day and
// product across all groups. Records priced differently on the same day get
// separate rows so the salary column stays exact.
func (s *Service) DailyProductions(ctx context.Context, month Month) ([]DailyProduction, error) {
	groups, err := s.repo.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	type key struct {
		day     string
		product string
		price   money.Amount
	}
	rows := make(map[key]*DailyProduction)
	for _, group := range groups {
		records, err := s.repo.ListRecords(ctx, group.ID, month)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			k := key{rec.Date.Format("2006-01-02"), rec.ProductCode, rec.UnitPrice}
			row, ok := rows[k]
			if !ok {
				row = &DailyProduction{
					Date:            rec.Date,
					ProductCode:     rec.ProductCode,
					UnitPrice:       rec.UnitPrice,
					QuantityByGroup: make(map[int64]int64),
				}
				rows[k] = row
			}
			row.QuantityByGroup[rec.GroupID] += rec.Quantity
			row.TotalQuantity += rec.Quantity
			row.TotalSalary += rec.TotalSalary()
		}
	}

	outs := make([]DailyProduction, 0, len(rows))
	for _, row := range rows {
		outs = append(outs, *row)
	}
	sort.Slice(outs, func(i, j int) bool {
		if !outs[i].Date.Equal(outs[j].Date) {
			return outs[i].Date.Before(outs[j].Date)
		}
		return outs[i].ProductCode < outs[j].ProductCode
	})
	return outs, nil
}
