// src/processors/sales_processor.go
package processors

import (
	"sort"
	"time"

	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/parsers/foxx"
)

// recentLimit caps the current-month table in the summary.
const recentLimit = 10

type salesProcessorImpl struct{}

// NewSalesProcessor creates a new instance of SalesProcessor.
func NewSalesProcessor() SalesProcessor {
	return &salesProcessorImpl{}
}

// Aggregate runs the full sales pipeline: normalize, filter, sort by date
// ascending, then reduce into the summary. It is pure over its inputs and
// recomputes everything on every call.
func (p *salesProcessorImpl) Aggregate(raw []models.RawRow, filter models.SalesFilter, now time.Time) models.SalesSummary {
	rows := foxx.NormalizeAll(raw)

	filtered := make([]models.SalesRow, 0, len(rows))
	for _, r := range rows {
		if filter.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].DateObj.Before(filtered[j].DateObj)
	})

	if len(filtered) == 0 {
		return models.EmptySalesSummary()
	}

	summary := models.EmptySalesSummary()
	summary.CountSales = len(filtered)

	byDay := map[string]float64{}
	for _, r := range filtered {
		summary.TotalSales += r.Amount
		byDay[r.Date] += r.Amount
		summary.ByChallenge[r.Challenge] += r.Amount
		summary.ByPayment[r.Payment] += r.Amount
	}
	summary.AvgSale = summary.TotalSales / float64(summary.CountSales)

	for _, date := range sortedKeys(byDay) {
		summary.Daily = append(summary.Daily, models.DailyPoint{Date: date, Amount: byDay[date]})
	}
	running := 0.0
	for _, d := range summary.Daily {
		running += d.Amount
		summary.Cumulative = append(summary.Cumulative, models.CumulativePoint{Date: d.Date, Total: running})
	}

	// Option lists are distinct values over the FILTERED set, so they
	// narrow together with the date range. Intentional; see DESIGN.md.
	summary.ChallengeList = distinctSorted(filtered, func(r models.SalesRow) string { return r.Challenge })
	summary.PaymentList = distinctSorted(filtered, func(r models.SalesRow) string { return r.Payment })

	// Current calendar month of the injected reference time. Deliberately
	// independent of the filter's own date bounds.
	monthRows := make([]models.SalesRow, 0)
	for _, r := range filtered {
		if r.DateObj.Year() == now.Year() && r.DateObj.Month() == now.Month() {
			monthRows = append(monthRows, r)
		}
	}
	sort.SliceStable(monthRows, func(i, j int) bool {
		return monthRows[i].DateObj.After(monthRows[j].DateObj)
	})
	for i, r := range monthRows {
		if i == recentLimit {
			break
		}
		summary.Recent = append(summary.Recent, models.RecentSale{
			DisplayDate: r.DateObj.Format("02/01/2006"),
			Date:        r.Date,
			OrderID:     r.OrderID,
			Email:       r.Email,
			Challenge:   r.Challenge,
			Amount:      r.Amount,
			Payment:     r.Payment,
		})
	}

	byEmailThisMonth := map[string]float64{}
	for _, r := range monthRows {
		byEmailThisMonth[r.Email] += r.Amount
	}
	bestEmail, bestEmailTotal := maxByTotal(byEmailThisMonth)
	bestEmailCount := 0
	if bestEmail != models.Placeholder {
		for _, r := range monthRows {
			if r.Email == bestEmail {
				bestEmailCount++
			}
		}
	}
	summary.BestAffiliateThisMonth = models.BestEntry{Name: bestEmail, Count: bestEmailCount, Total: bestEmailTotal}

	bestChallenge, bestChallengeTotal := maxByTotal(summary.ByChallenge)
	bestChallengeCount := 0
	if bestChallenge != models.Placeholder {
		for _, r := range filtered {
			if r.Challenge == bestChallenge {
				bestChallengeCount++
			}
		}
	}
	summary.BestChallenge = models.BestEntry{Name: bestChallenge, Count: bestChallengeCount, Total: bestChallengeTotal}

	return summary
}

// maxByTotal picks the key with the highest total. Keys are visited in
// ascending order and only a strictly greater total replaces the running
// maximum, so ties go to the lexicographically smallest key. Returns the
// placeholder when no total beats zero.
func maxByTotal(m map[string]float64) (string, float64) {
	best := models.Placeholder
	bestTotal := 0.0
	for _, k := range sortedKeys(m) {
		if m[k] > bestTotal {
			bestTotal = m[k]
			best = k
		}
	}
	return best, bestTotal
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func distinctSorted(rows []models.SalesRow, field func(models.SalesRow) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, r := range rows {
		v := field(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
