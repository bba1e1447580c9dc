package config

import (
	"fmt"
	"sort"
	"strings"
)

// OutputFormats are the values accepted for the output setting.
var OutputFormats = []string{"json", "pretty", "table", "yaml", "raw"}

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks a loaded configuration.
func Validate(cfg Config) error {
	var errs ValidationErrors

	if cfg.Output != "" {
		if err := ValidateOneOf("output", cfg.Output, OutputFormats); err != nil {
			errs = append(errs, err.(ValidationError))
		}
	}
	if cfg.Timeout < 0 {
		errs.Add("timeout", "must not be negative", cfg.Timeout)
	}

	names := make([]string, 0, len(cfg.Servers))
	for name := range cfg.Servers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		entry := cfg.Servers[name]
		field := fmt.Sprintf("servers.%s", name)
		switch {
		case strings.TrimSpace(name) == "":
			errs.Add("servers", "alias names must not be empty")
		case entry.URL == "" && strings.TrimSpace(entry.Command) == "":
			errs.Add(field, "needs a url or a command")
		case entry.URL != "" && entry.Command != "":
			errs.Add(field, "must not set both url and command")
		case entry.URL != "" && !strings.HasPrefix(entry.URL, "http://") && !strings.HasPrefix(entry.URL, "https://"):
			errs.Add(field+".url", "must be an http or https URL", entry.URL)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// FormatValidationError creates a consistent validation error message
func FormatValidationError(source string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("invalid configuration in %s: %w", source, err)
}
