/*
Copyright © 2025 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package errors defines the four error kinds this module raises, per the
// error handling design: construction errors (SourceError, TargetError),
// mutation errors (InstallError) and verification errors
// (CompareSourceError). Programmer errors (wrong access mode, unknown
// platform identifier) are left as panics, not values of these types.
package errors

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// SourceError is raised during Source construction; no partial on-disk
// state is possible when it is returned.
type SourceError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid source %q: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid source %q: %s", e.Path, e.Reason)
}

func (e *SourceError) Unwrap() error { return e.Cause }

func NewSourceError(path, reason string, cause error) *SourceError {
	return &SourceError{Path: path, Reason: reason, Cause: cause}
}

// TargetError is raised during Target construction; no partial on-disk
// state is possible when it is returned.
type TargetError struct {
	Path   string
	Reason string
	Cause  error
}

func (e *TargetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid target %q: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid target %q: %s", e.Path, e.Reason)
}

func (e *TargetError) Unwrap() error { return e.Cause }

func NewTargetError(path, reason string, cause error) *TargetError {
	return &TargetError{Path: path, Reason: reason, Cause: cause}
}

// InstallError is raised during install/remove; the target may be left
// partially mutated. Callers should treat it as fatal for that platform
// slot and re-run the whole install to recover.
type InstallError struct {
	Platform string
	Reason   string
	Cause    error
}

func (e *InstallError) Error() string {
	prefix := "install error"
	if e.Platform != "" {
		prefix = fmt.Sprintf("install error for platform %q", e.Platform)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Reason)
}

func (e *InstallError) Unwrap() error { return e.Cause }

func NewInstallError(platform, reason string, cause error) *InstallError {
	return &InstallError{Platform: platform, Reason: reason, Cause: cause}
}

// CompareSourceError is raised during compare_source; it never mutates
// state, only reports. A single compare walks many files, so it aggregates
// every mismatch found via go-multierror instead of failing on the first.
type CompareSourceError struct {
	Platform string
	errs     *multierror.Error
}

func NewCompareSourceError(platform string) *CompareSourceError {
	return &CompareSourceError{Platform: platform, errs: &multierror.Error{}}
}

// Add records one mismatch (a byte diff, a missing file, a redundant file).
// Returns the receiver so callers can chain.
func (e *CompareSourceError) Add(format string, args ...interface{}) *CompareSourceError {
	e.errs = multierror.Append(e.errs, fmt.Errorf(format, args...))
	return e
}

// HasErrors reports whether any mismatch was recorded.
func (e *CompareSourceError) HasErrors() bool {
	return e.errs.Len() > 0
}

// ErrorOrNil returns e if any mismatch was recorded, else nil - suitable for
// `return errs.ErrorOrNil()` at the end of a compare_source walk.
func (e *CompareSourceError) ErrorOrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *CompareSourceError) Error() string {
	if e.Platform == "" {
		return fmt.Sprintf("compare_source failed:\n%s", e.errs.Error())
	}
	return fmt.Sprintf("compare_source failed for platform %q:\n%s", e.Platform, e.errs.Error())
}

func (e *CompareSourceError) Unwrap() error { return e.errs.ErrorOrNil() }

// Mismatches returns the individual recorded mismatches.
func (e *CompareSourceError) Mismatches() []error {
	return e.errs.Errors
}
