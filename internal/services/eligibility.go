package services

import (
	"time"

	"agentflow/pkg/models"
)

// Eligibility is the outcome of evaluating an agent's lifecycle constraints
// at a given instant. Reason is set only when the agent is not eligible.
type Eligibility struct {
	Eligible bool
	Reason   string
}

// Skip reasons reported by Lifecycle.Evaluate.
const (
	SkipReasonDisabled = "disabled"
	SkipReasonWrongDay = "wrong day"
	SkipReasonTooEarly = "too early"
	SkipReasonTooLate  = "too late"
)

// Lifecycle bundles an agent's activation constraints. The check order is a
// contract: disabled, then day window, then time window. The first failing
// check determines the single reported skip reason.
type Lifecycle struct {
	IsActive    bool
	ActiveDays  []int  // 0=Sunday..6=Saturday; empty means every day
	ActiveFrom  string // HH:MM:SS, UTC, inclusive
	ActiveUntil string // HH:MM:SS, UTC, inclusive
}

// LifecycleOf extracts the lifecycle constraints from an agent profile.
func LifecycleOf(agent *models.AgentProfile) Lifecycle {
	return Lifecycle{
		IsActive:    agent.IsActive,
		ActiveDays:  agent.ActiveDays,
		ActiveFrom:  agent.ActiveFrom,
		ActiveUntil: agent.ActiveUntil,
	}
}

// Evaluate decides whether the agent may run at the given instant. The
// instant is interpreted in UTC. Time-of-day comparisons are lexicographic
// on zero-padded HH:MM:SS, which is valid because the format is fixed-width.
func (l Lifecycle) Evaluate(now time.Time) Eligibility {
	if !l.IsActive {
		return Eligibility{Reason: SkipReasonDisabled}
	}

	now = now.UTC()

	// Empty ActiveDays means the agent runs every day.
	if len(l.ActiveDays) > 0 {
		currentDay := int(now.Weekday())
		allowed := false
		for _, d := range l.ActiveDays {
			if d == currentDay {
				allowed = true
				break
			}
		}
		if !allowed {
			return Eligibility{Reason: SkipReasonWrongDay}
		}
	}

	currentTime := now.Format("15:04:05")
	if l.ActiveFrom != "" && currentTime < l.ActiveFrom {
		return Eligibility{Reason: SkipReasonTooEarly}
	}
	if l.ActiveUntil != "" && currentTime > l.ActiveUntil {
		return Eligibility{Reason: SkipReasonTooLate}
	}

	return Eligibility{Eligible: true}
}
