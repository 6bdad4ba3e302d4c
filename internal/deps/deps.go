// Package deps checks for the external executables the pipeline shells out to.
package deps

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"reelcheck/internal/services"
)

// Requirement defines an external dependency reelcheck relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// MissingBinaryError reports an external tool that is not installed or not
// on PATH. It is fatal and never treated as an ordinary download or
// extraction failure.
type MissingBinaryError struct {
	Command string
	Err     error
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("required tool %q is not installed or not on PATH", e.Command)
}

// Unwrap exposes both the external-tool marker and the lookup error.
func (e *MissingBinaryError) Unwrap() []error {
	return []error{services.ErrExternalTool, e.Err}
}

// Require resolves command on PATH or returns a *MissingBinaryError.
func Require(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", &MissingBinaryError{Command: command, Err: exec.ErrNotFound}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", &MissingBinaryError{Command: command, Err: err}
	}
	return path, nil
}

// AsMissing converts an exec start failure into a *MissingBinaryError when the
// executable could not be found. Other errors are returned unchanged.
func AsMissing(command string, err error) error {
	if err == nil {
		return nil
	}
	var missing *MissingBinaryError
	if errors.As(err, &missing) {
		return err
	}
	if errors.Is(err, exec.ErrNotFound) {
		return &MissingBinaryError{Command: command, Err: err}
	}
	var lookupErr *exec.Error
	if errors.As(err, &lookupErr) {
		return &MissingBinaryError{Command: command, Err: err}
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && errors.Is(err, fs.ErrNotExist) {
		return &MissingBinaryError{Command: command, Err: err}
	}
	return err
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch _, err := Require(cmd); {
		case cmd == "":
			status.Detail = "command not configured"
		case err != nil:
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		default:
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}
