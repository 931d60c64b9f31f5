package journal

import (
	"time"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/money"
)

// ApprovalConfig parameterizes the approval workflow, per spec.md §6's
// approval.{enabled, auto_approve_threshold, thresholds} block.
type ApprovalConfig struct {
	Enabled             bool
	AutoApproveThreshold money.Money
	Thresholds          []money.Money // strictly ascending amount bands
	RejectionRate       float64
	RevisionRate        float64
	ApproverPool        []string
}

// RequiredLevels returns how many approval levels an amount requires
// given the configured ascending threshold bands.
func RequiredLevels(cfg ApprovalConfig, amount money.Money) int {
	levels := 0
	for _, t := range cfg.Thresholds {
		if amount.Cmp(t) > 0 {
			levels++
		}
	}
	return levels
}

// SimulateApproval builds a level-by-level approval chain with 1-3
// business-hour gaps between levels, skipping weekends, per spec.md
// §4.5 step 18. Returns the steps and whether the workflow is
// SOX-relevant (true whenever approval is actually required).
func SimulateApproval(cfg ApprovalConfig, amount money.Money, submittedAt time.Time, rng *ids.Stream) ([]ApprovalStep, bool) {
	if !cfg.Enabled || amount.Cmp(cfg.AutoApproveThreshold) <= 0 {
		return nil, false
	}
	levels := RequiredLevels(cfg, amount)
	if levels == 0 {
		return nil, false
	}
	pool := cfg.ApproverPool
	if len(pool) == 0 {
		pool = []string{"approver-1", "approver-2", "approver-3"}
	}

	steps := make([]ApprovalStep, 0, levels)
	cursor := submittedAt
	for level := 1; level <= levels; level++ {
		gapHours := rng.IntRange(1, 3)
		cursor = addBusinessHours(cursor, gapHours)
		approver := pool[rng.IntRange(0, len(pool)-1)]
		approved := true
		if rng.Bool(cfg.RejectionRate) {
			approved = false
		}
		steps = append(steps, ApprovalStep{
			Level:       level,
			ApproverID:  approver,
			RequestedAt: submittedAt,
			DecidedAt:   cursor,
			Approved:    approved,
		})
		if !approved {
			break
		}
	}
	return steps, true
}

// addBusinessHours advances t by hours business hours, skipping
// weekends entirely (each weekend day adds a full 24h before resuming
// the hour count), per spec.md §4.5 step 18's "weekends skipped".
func addBusinessHours(t time.Time, hours int) time.Time {
	result := t.Add(time.Duration(hours) * time.Hour)
	for result.Weekday() == time.Saturday || result.Weekday() == time.Sunday {
		result = result.AddDate(0, 0, 1)
	}
	return result
}
