package controller

import (
	"sort"

	"gss-dashboard/internal/model"
	"gss-dashboard/pkg/utils"
)

// pairKey identifies one (group, category) bucket.
type pairKey struct {
	group    string
	category string
}

// Aggregate counts records per (group value, category value). Records missing
// either column are skipped. Pairs with no records are absent.
func Aggregate(records []model.Record, groupCol, categoryCol string) []model.AggregateRow {
	counts := make(map[pairKey]int)
	for _, rec := range records {
		g, ok := rec.Value(groupCol)
		if !ok {
			continue
		}
		c, ok := rec.Value(categoryCol)
		if !ok {
			continue
		}
		counts[pairKey{group: g, category: c}]++
	}

	rows := make([]model.AggregateRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, model.AggregateRow{Group: k.group, Category: k.category, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Group != rows[j].Group {
			return utils.NaturalLess(rows[i].Group, rows[j].Group)
		}
		return utils.NaturalLess(rows[i].Category, rows[j].Category)
	})
	return rows
}
