// src/processors/balance_processor.go
package processors

import (
	"sort"
	"strings"

	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/parsers/tazapay"
)

type balanceProcessorImpl struct{}

// NewBalanceProcessor creates a new instance of BalanceProcessor.
func NewBalanceProcessor() BalanceProcessor {
	return &balanceProcessorImpl{}
}

// Aggregate runs the balance pipeline: normalize (schema classified once
// for the whole set), filter, sort date ascending, then fold the signed
// impacts into the running balance and the breakdowns.
func (p *balanceProcessorImpl) Aggregate(raw []models.RawRow, filter models.BalanceFilter) models.BalanceSummary {
	rows := tazapay.NormalizeAll(raw)

	// Dominant currency is guessed over the full normalized set, before
	// filtering: the user wants the ledger's currency, not the filter's.
	dominant := dominantCurrency(rows)

	filtered := make([]models.BalanceRow, 0, len(rows))
	for _, r := range rows {
		if filter.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].DateObj.Before(filtered[j].DateObj)
	})

	summary := models.EmptyBalanceSummary()
	summary.DominantCurrency = dominant
	if len(filtered) == 0 {
		return summary
	}

	byDay := map[string]float64{}
	opSet := map[string]struct{}{}
	srcObjSet := map[string]struct{}{}
	srcCurSet := map[string]struct{}{}

	running := 0.0
	for _, r := range filtered {
		running += r.Impact
		summary.Timeline = append(summary.Timeline, models.TimelineEntry{
			Date:            r.Date,
			Type:            r.Type,
			SourceObject:    r.SourceObject,
			SourceCurrency:  r.SourceCurrency,
			Impact:          r.Impact,
			Balance:         running,
			BankName:        r.BankName,
			CustomerCountry: r.CustomerCountry,
		})

		summary.ByType[r.Type] += r.Impact
		byDay[r.Date] += r.Impact

		opSet[r.Type] = struct{}{}
		srcObjSet[r.SourceObject] = struct{}{}
		if r.SourceCurrency != "" {
			srcCurSet[r.SourceCurrency] = struct{}{}
		}

		// Zero-impact rows (pending payins) carry no money movement and
		// would only add noise to the bank/country breakdowns.
		if r.BankName != "" && r.Impact != 0 {
			summary.BankAgg[r.BankName] += r.Impact
		}
		if r.CustomerCountry != "" && r.Impact != 0 {
			summary.CountryAgg[strings.ToUpper(r.CustomerCountry)] += r.Impact
		}
	}
	summary.TotalTx = len(filtered)
	summary.LastBalance = running

	for _, date := range sortedKeys(byDay) {
		summary.Daily = append(summary.Daily, models.ImpactPoint{Date: date, Impact: byDay[date]})
	}
	// Replay the per-day series: the cumulative curve is the prefix sum of
	// the daily net impacts, one point per day.
	cum := 0.0
	for _, d := range summary.Daily {
		cum += d.Impact
		summary.Cumulative = append(summary.Cumulative, models.BalancePoint{Date: d.Date, Balance: cum})
	}

	summary.OperationTypeList = setToSorted(opSet)
	summary.SourceObjectList = setToSorted(srcObjSet)
	summary.SourceCurrencyList = setToSorted(srcCurSet)

	return summary
}

// dominantCurrency returns the most frequent source currency in the row
// set, "USD" when none is present. Ties go to the alphabetically first
// currency so the guess is stable.
func dominantCurrency(rows []models.BalanceRow) string {
	counts := map[string]int{}
	for _, r := range rows {
		if r.SourceCurrency == "" {
			continue
		}
		counts[strings.ToUpper(r.SourceCurrency)]++
	}
	if len(counts) == 0 {
		return "USD"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best
}

func setToSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
