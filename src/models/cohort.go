// src/models/cohort.go
package models

// CohortSummary splits the clients active in a reference month into those
// whose first activity falls in that month ("new") and those with activity
// in an earlier month ("returning"). Percentages are 0 when Total is 0.
type CohortSummary struct {
	Month          string  `json:"month"` // reference month, YYYY-MM
	NewCount       int     `json:"newCount"`
	ReturningCount int     `json:"returningCount"`
	PctNew         float64 `json:"pctNew"`
	PctReturning   float64 `json:"pctReturning"`
	Total          int     `json:"total"`
}
