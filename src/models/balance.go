// src/models/balance.go
package models

import "time"

// Operation types for balance rows. The sign of Impact always agrees with
// the type: positive for CREDIT, negative for DEBIT.
const (
	OperationCredit = "CREDIT"
	OperationDebit  = "DEBIT"
)

// BalanceRow is the canonical shape of one balance-ledger record after
// normalization, regardless of which export schema it came from.
type BalanceRow struct {
	DateObj         time.Time `json:"-"`
	Date            string    `json:"date"` // canonical YYYY-MM-DD
	Type            string    `json:"type"` // CREDIT or DEBIT
	SourceObject    string    `json:"sourceObject"`
	SourceCurrency  string    `json:"sourceCurrency"`
	Impact          float64   `json:"impact"` // signed: positive = credit
	BankName        string    `json:"bankName"`
	CustomerCountry string    `json:"customerCountry"`
}

// BalanceFilter restricts the rows entering the balance aggregation.
// Semantics mirror SalesFilter: empty or FilterAll means unconstrained.
type BalanceFilter struct {
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	OperationType  string `json:"operationType"`
	SourceObject   string `json:"sourceObject"`
	SourceCurrency string `json:"sourceCurrency"`
}

func (f BalanceFilter) Matches(row BalanceRow) bool {
	if f.StartDate != "" && row.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && row.Date > f.EndDate {
		return false
	}
	if f.OperationType != "" && f.OperationType != FilterAll && row.Type != f.OperationType {
		return false
	}
	if f.SourceObject != "" && f.SourceObject != FilterAll && row.SourceObject != f.SourceObject {
		return false
	}
	if f.SourceCurrency != "" && f.SourceCurrency != FilterAll && row.SourceCurrency != f.SourceCurrency {
		return false
	}
	return true
}

// TimelineEntry is one balance row together with the running balance after
// applying its impact.
type TimelineEntry struct {
	Date            string  `json:"date"`
	Type            string  `json:"type"`
	SourceObject    string  `json:"sourceObject"`
	SourceCurrency  string  `json:"sourceCurrency"`
	Impact          float64 `json:"impact"`
	Balance         float64 `json:"balance"`
	BankName        string  `json:"bankName,omitempty"`
	CustomerCountry string  `json:"customerCountry,omitempty"`
}

// ImpactPoint is one day's signed net impact.
type ImpactPoint struct {
	Date   string  `json:"date"`
	Impact float64 `json:"impact"`
}

// BalancePoint is the cumulative balance at the end of a given day.
type BalancePoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// BalanceSummary is the full derived result of one balance aggregation pass.
type BalanceSummary struct {
	Timeline           []TimelineEntry    `json:"timeline"`
	Daily              []ImpactPoint      `json:"daily"`
	Cumulative         []BalancePoint     `json:"cumulative"`
	ByType             map[string]float64 `json:"byType"`
	BankAgg            map[string]float64 `json:"bankAgg"`
	CountryAgg         map[string]float64 `json:"countryAgg"`
	TotalTx            int                `json:"totalTx"`
	LastBalance        float64            `json:"lastBalance"`
	DominantCurrency   string             `json:"dominantCurrency"`
	OperationTypeList  []string           `json:"operationTypeList"`
	SourceObjectList   []string           `json:"sourceObjectList"`
	SourceCurrencyList []string           `json:"sourceCurrencyList"`
}

// EmptyBalanceSummary returns the zeroed-but-well-formed balance result.
func EmptyBalanceSummary() BalanceSummary {
	return BalanceSummary{
		Timeline:           []TimelineEntry{},
		Daily:              []ImpactPoint{},
		Cumulative:         []BalancePoint{},
		ByType:             map[string]float64{},
		BankAgg:            map[string]float64{},
		CountryAgg:         map[string]float64{},
		DominantCurrency:   "USD",
		OperationTypeList:  []string{},
		SourceObjectList:   []string{},
		SourceCurrencyList: []string{},
	}
}
