// src/processors/cohort_processor.go
package processors

import (
	"time"

	"github.com/username/foxxdash/backend/src/models"
	"github.com/username/foxxdash/backend/src/parsers/foxx"
	"github.com/username/foxxdash/backend/src/utils"
)

type cohortProcessorImpl struct{}

// NewCohortProcessor creates a new instance of CohortProcessor.
func NewCohortProcessor() CohortProcessor {
	return &cohortProcessorImpl{}
}

// Classify partitions the clients active in the reference month into new
// and returning. A client is returning when it has activity in a month
// STRICTLY EARLIER than the reference month; later months do not count as
// evidence of an existing relationship. Clients with no activity in the
// reference month are excluded from both counts.
func (p *cohortProcessorImpl) Classify(rows []models.RawRow, ref time.Time) models.CohortSummary {
	refKey := utils.MonthKey(ref)

	// identity -> set of activity month keys, over the FULL row set
	months := map[string]map[string]struct{}{}
	for _, r := range rows {
		id := foxx.IdentityKey(r)
		if id == "" {
			continue
		}
		pd, ok := foxx.RowDate(r)
		if !ok {
			continue
		}
		mk := utils.MonthKey(pd.Time)
		if months[id] == nil {
			months[id] = map[string]struct{}{}
		}
		months[id][mk] = struct{}{}
	}

	summary := models.CohortSummary{Month: refKey}
	for _, set := range months {
		if _, active := set[refKey]; !active {
			continue
		}
		returning := false
		for mk := range set {
			// month keys are YYYY-MM, so string order is chronological
			if mk < refKey {
				returning = true
				break
			}
		}
		if returning {
			summary.ReturningCount++
		} else {
			summary.NewCount++
		}
	}

	summary.Total = summary.NewCount + summary.ReturningCount
	if summary.Total > 0 {
		summary.PctNew = utils.RoundFloat(float64(summary.NewCount)/float64(summary.Total)*100, 1)
		summary.PctReturning = utils.RoundFloat(float64(summary.ReturningCount)/float64(summary.Total)*100, 1)
	}
	return summary
}
