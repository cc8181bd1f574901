// src/models/sales.go
package models

import "time"

// SalesRow is the canonical shape of one sales-ledger record after
// normalization. Rows whose date could not be parsed never reach this type.
type SalesRow struct {
	DateObj   time.Time `json:"-"`
	Date      string    `json:"date"` // canonical YYYY-MM-DD
	Amount    float64   `json:"amount"`
	Challenge string    `json:"challenge"`
	Payment   string    `json:"payment"`
	OrderID   string    `json:"orderId"`
	Email     string    `json:"email"`
}

// SalesFilter restricts the rows entering the sales aggregation.
// Dates are ISO YYYY-MM-DD strings; an empty bound is unconstrained.
// For the categorical dimensions both "" and FilterAll mean "no filter".
type SalesFilter struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Challenge string `json:"challenge"`
	Payment   string `json:"payment"`
}

// Matches reports whether the row passes every filter dimension.
// Date bounds are inclusive by calendar day: the comparison is on the
// canonical ISO date string, so an end date keeps rows from that whole day
// regardless of their time component.
func (f SalesFilter) Matches(row SalesRow) bool {
	if f.StartDate != "" && row.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && row.Date > f.EndDate {
		return false
	}
	if f.Challenge != "" && f.Challenge != FilterAll && row.Challenge != f.Challenge {
		return false
	}
	if f.Payment != "" && f.Payment != FilterAll && row.Payment != f.Payment {
		return false
	}
	return true
}

// DailyPoint is one day's summed sales amount.
type DailyPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// CumulativePoint is the running total of the daily series at a given day.
type CumulativePoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// BestEntry names the winner of a max-by-total computation together with
// its row count and summed amount.
type BestEntry struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// RecentSale is one current-month sale prepared for tabular display.
type RecentSale struct {
	DisplayDate string  `json:"displayDate"` // DD/MM/YYYY
	Date        string  `json:"date"`
	OrderID     string  `json:"orderId"`
	Email       string  `json:"email"`
	Challenge   string  `json:"challenge"`
	Amount      float64 `json:"amount"`
	Payment     string  `json:"payment"`
}

// SalesSummary is the full derived result of one sales aggregation pass.
// It is recomputed from scratch on every call and carries no state.
type SalesSummary struct {
	CountSales             int                `json:"countSales"`
	TotalSales             float64            `json:"totalSales"`
	AvgSale                float64            `json:"avgSale"`
	Daily                  []DailyPoint       `json:"daily"`
	Cumulative             []CumulativePoint  `json:"cumulative"`
	ByChallenge            map[string]float64 `json:"byChallenge"`
	ByPayment              map[string]float64 `json:"byPayment"`
	Recent                 []RecentSale       `json:"recent"`
	ChallengeList          []string           `json:"challengeList"`
	PaymentList            []string           `json:"paymentList"`
	BestAffiliateThisMonth BestEntry          `json:"bestAffiliateThisMonth"`
	BestChallenge          BestEntry          `json:"bestChallenge"`
}

// EmptySalesSummary returns the zeroed-but-well-formed result used when no
// row survives normalization and filtering. Collections are empty, never nil,
// so the JSON shape stays stable.
func EmptySalesSummary() SalesSummary {
	return SalesSummary{
		Daily:                  []DailyPoint{},
		Cumulative:             []CumulativePoint{},
		ByChallenge:            map[string]float64{},
		ByPayment:              map[string]float64{},
		Recent:                 []RecentSale{},
		ChallengeList:          []string{},
		PaymentList:            []string{},
		BestAffiliateThisMonth: BestEntry{Name: Placeholder},
		BestChallenge:          BestEntry{Name: Placeholder},
	}
}
