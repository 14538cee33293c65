// Package envcheck verifies that the input files exist before any of them
// is loaded.
package envcheck

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gotitanic/domain/passenger"
	"gotitanic/internal"
	"gotitanic/internal/errors"
)

// FileStatus is the outcome for one expected file
type FileStatus struct {
	Name     string
	Path     string
	Found    bool
	Required bool
}

// Result lists every expected file under Dir
type Result struct {
	Dir   string
	Files []FileStatus
}

// OK is true when every required file was found
func (r *Result) OK() bool {
	return len(r.Missing()) == 0
}

// Missing returns required files that were not found
func (r *Result) Missing() []FileStatus {
	var out []FileStatus
	for _, f := range r.Files {
		if f.Required && !f.Found {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns the status of the named file
func (r *Result) Lookup(name string) (FileStatus, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}
	return FileStatus{}, false
}

// BaselinePath returns the baseline file path if it exists
func (r *Result) BaselinePath() (string, bool) {
	f, ok := r.Lookup(passenger.BaselineFile)
	if !ok || !f.Found {
		return "", false
	}
	return f.Path, true
}

// Checker stats the expected files of a data directory
type Checker struct {
	logger *internal.Logger
}

func NewChecker(logger *internal.Logger) *Checker {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Checker{logger: logger}
}

// Check resolves dir to an absolute path and stats train, test and the
// optional baseline. Only stat errors other than not-exist are returned.
func (c *Checker) Check(dir string) (*Result, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving data directory %s", dir)
	}

	result := &Result{Dir: abs}
	expected := []struct {
		name     string
		required bool
	}{
		{passenger.TrainFile, true},
		{passenger.TestFile, true},
		{passenger.BaselineFile, false},
	}
	for _, e := range expected {
		path := filepath.Join(abs, e.name)
		found, err := regularFileExists(path)
		if err != nil {
			return nil, errors.Wrapf(err, "checking %s", path)
		}
		c.logger.Debug("[EnvCheck] %s found=%t", path, found)
		result.Files = append(result.Files, FileStatus{Name: e.name, Path: path, Found: found, Required: e.required})
	}
	return result, nil
}

// Report writes the user-facing check lines to w
func (r *Result) Report(w io.Writer) {
	if !r.OK() {
		for _, f := range r.Missing() {
			fmt.Fprintf(w, "[ERROR] Missing required file: %s\n", f.Path)
		}
		fmt.Fprintf(w, "[ERROR] Expected %s and %s under: %s\n", passenger.TrainFile, passenger.TestFile, r.Dir)
		fmt.Fprintln(w, "Place your downloaded Kaggle files locally (do not commit them).")
		return
	}

	fmt.Fprintln(w, "[OK] Environment looks good. Found:")
	for _, f := range r.Files {
		if f.Required {
			fmt.Fprintf(w, " - %s\n", f.Path)
		}
	}
	if path, ok := r.BaselinePath(); ok {
		fmt.Fprintf(w, " - %s (optional baseline)\n", path)
	} else {
		fmt.Fprintf(w, "[INFO] Optional %s not found; approximate accuracy will be skipped\n", passenger.BaselineFile)
	}
}

// Err is nil when the check passed, otherwise a MISSING_INPUT error naming
// the absent files
func (r *Result) Err() error {
	missing := r.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, f := range missing {
		names[i] = f.Name
	}
	return errors.MissingInput(fmt.Sprintf("missing required file(s) %v under %s", names, r.Dir))
}

func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}
