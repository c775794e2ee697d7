package domain

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates the build inputs cannot produce a consistent
// configuration: an unmet toolchain floor, an unmapped keyword, a violated
// flag implication or an unmatched architecture.
type ConfigurationError struct {
	Cause   error
	Aspect  string // toolchain, platform, flags, scheduler
	Subject string // offending compiler, flag or rule name
	Message string
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error (%s)", e.Aspect)
	if e.Subject != "" {
		msg += fmt.Sprintf(" %q", e.Subject)
	}
	msg += ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, subject, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Subject: subject,
		Message: message,
		Cause:   cause,
	}
}

// DeclarationError indicates a query for a flag that was never declared, or
// a query that disagrees with the flag's declared kind.
type DeclarationError struct {
	Name   string
	Reason string
}

func (e *DeclarationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("flag not declared: %s", e.Name)
	}
	return fmt.Sprintf("flag %s: %s", e.Name, e.Reason)
}

// NewDeclarationError creates a new declaration error.
func NewDeclarationError(name, reason string) *DeclarationError {
	return &DeclarationError{Name: name, Reason: reason}
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsDeclarationError reports whether err wraps a DeclarationError.
func IsDeclarationError(err error) bool {
	var de *DeclarationError
	return errors.As(err, &de)
}

// Aspects used in ConfigurationError.
const (
	AspectToolchain = "toolchain"
	AspectPlatform  = "platform"
	AspectFlags     = "flags"
	AspectScheduler = "scheduler"
	AspectInputs    = "inputs"
)
