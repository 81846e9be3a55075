// Package deps reports which of the external programs vidscribe shells out
// to are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement is one external program and whether vidscribe can run without it.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the lookup outcome for a Requirement. Path is set when the
// command was found; Detail explains why it was not.
type Status struct {
	Requirement
	Available bool
	Path      string
	Detail    string
}

// Satisfied reports whether every required entry is available.
func Satisfied(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Optional && !s.Available {
			return false
		}
	}
	return true
}

// CheckBinaries resolves each requirement against PATH.
func CheckBinaries(requirements []Requirement) []Status {
	return check(requirements, exec.LookPath)
}

func check(requirements []Requirement, lookPath func(string) (string, error)) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		results[i] = locate(req, lookPath)
	}
	return results
}

func locate(req Requirement, lookPath func(string) (string, error)) Status {
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := lookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("%s not found on PATH", req.Command)
		return status
	}
	status.Available = true
	status.Path = path
	return status
}
