package restore

import (
	"github.com/hashicorp/go-multierror"

	"github.com/enes-ismaili/wazuh-restore/internal/logger"
	"github.com/enes-ismaili/wazuh-restore/internal/system"
)

// ComponentState summarizes one component's restore
type ComponentState int

const (
	StateSucceeded ComponentState = iota
	StatePartial
	StateFailed
	StateSkipped
)

func (s ComponentState) String() string {
	switch s {
	case StateSucceeded:
		return "succeeded"
	case StatePartial:
		return "partial"
	case StateFailed:
		return "failed"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome aggregates the whole run. Built incrementally by the
// orchestrator and summarized once at the end; warned failures are
// collected but never change the exit code.
type Outcome struct {
	DryRun   bool
	Declined bool

	Verified        bool // manifest present and all checksums matched
	ManifestMissing bool
	VerifySkipped   bool // dry-run plan preview
	HealthChecked   bool
	HealthAllActive bool
	HealthSkipped   bool

	componentOrder []string
	components     map[string]ComponentState
	actions        []system.ActionResult
	warnings       *multierror.Error
}

// NewOutcome creates an empty outcome record
func NewOutcome(dryRun bool) *Outcome {
	return &Outcome{
		DryRun:     dryRun,
		components: make(map[string]ComponentState),
	}
}

// SetComponent records a component's final state
func (o *Outcome) SetComponent(name string, state ComponentState) {
	if _, seen := o.components[name]; !seen {
		o.componentOrder = append(o.componentOrder, name)
	}
	o.components[name] = state
}

// Component returns a recorded component state
func (o *Outcome) Component(name string) (ComponentState, bool) {
	s, ok := o.components[name]
	return s, ok
}

// RecordAction appends one action result to the run record, folding
// warned failures into the warning aggregate
func (o *Outcome) RecordAction(res system.ActionResult) {
	o.actions = append(o.actions, res)
	if res.Status == system.StatusWarned && res.Err != nil {
		o.warnings = multierror.Append(o.warnings, res.Err)
	}
}

// AddWarning records a warned failure that did not come from an action
func (o *Outcome) AddWarning(err error) {
	if err != nil {
		o.warnings = multierror.Append(o.warnings, err)
	}
}

// Actions returns all recorded action results in order
func (o *Outcome) Actions() []system.ActionResult {
	return o.actions
}

// WarningCount returns the number of warned failures across the run
func (o *Outcome) WarningCount() int {
	if o.warnings == nil {
		return 0
	}
	return len(o.warnings.Errors)
}

// Summary writes the final per-component report to the log
func (o *Outcome) Summary(log logger.Logger) {
	if o.Declined {
		log.Info("Restore aborted by operator, nothing was changed")
		return
	}

	for _, name := range o.componentOrder {
		state := o.components[name]
		switch state {
		case StateFailed:
			log.Error("Component restore failed", "component", name)
		case StatePartial:
			log.Warn("Component restored with warnings", "component", name)
		default:
			log.Info("Component restored", "component", name, "state", state.String())
		}
	}

	switch {
	case o.VerifySkipped:
		log.Info("Integrity verification skipped (dry-run)")
	case o.ManifestMissing:
		log.Warn("Integrity unverified: backup set has no manifest")
	case o.Verified:
		log.Info("Integrity verified")
	}

	if o.HealthSkipped {
		log.Info("Health checks skipped")
	} else if o.HealthChecked {
		if o.HealthAllActive {
			log.Info("All services active")
		} else {
			log.Warn("One or more services inactive after restore")
		}
	}

	if n := o.WarningCount(); n > 0 {
		log.Warn("Run finished with warnings", "count", n)
	}
}
