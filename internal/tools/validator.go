// Package tools checks for the external commands a restore shells out to.
package tools

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/enes-ismaili/wazuh-restore/internal/logger"
)

// Requirement describes an external command an operation may need.
type Requirement struct {
	Name     string // e.g. "systemctl"
	Purpose  string // e.g. "stop and start the Wazuh units"
	Required bool   // false = informational only
}

// Status reports the availability of a single tool.
type Status struct {
	Name      string
	Path      string
	Available bool
}

// Restore returns the tool set a restore run shells out to. Archive
// extraction happens in-process, so tar and gzip are not on the list.
func Restore() []Requirement {
	return []Requirement{
		{Name: "systemctl", Purpose: "stop and start the Wazuh units", Required: true},
		{Name: "chown", Purpose: "restore file ownership after extraction", Required: true},
	}
}

// Validator checks whether external CLI tools are present on the system.
type Validator struct {
	log logger.Logger

	// LookPathFunc can be overridden in tests to stub exec.LookPath.
	LookPathFunc func(file string) (string, error)
}

// NewValidator creates a Validator that logs through log.
func NewValidator(log logger.Logger) *Validator {
	return &Validator{
		log:          log,
		LookPathFunc: exec.LookPath,
	}
}

// Validate checks every requirement and returns per-tool status.
// An error is returned only when at least one *required* tool is missing.
func (v *Validator) Validate(reqs []Requirement) ([]Status, error) {
	results := make([]Status, 0, len(reqs))
	var missing []string

	for _, req := range reqs {
		st := Status{Name: req.Name}

		path, err := v.LookPathFunc(req.Name)
		if err != nil {
			if req.Required {
				missing = append(missing, req.Name)
			}
			if v.log != nil {
				v.log.Debug("Tool not found", "tool", req.Name, "purpose", req.Purpose)
			}
		} else {
			st.Available = true
			st.Path = path
			if v.log != nil {
				v.log.Debug("Tool found", "tool", req.Name, "path", path)
			}
		}
		results = append(results, st)
	}

	if len(missing) > 0 {
		return results, fmt.Errorf("required tools not found in PATH: %s", strings.Join(missing, ", "))
	}
	return results, nil
}
