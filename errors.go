package inject

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================
// These are base errors that should be wrapped in typed errors when returned.
// Never return these directly to users - always wrap them with context.

var (
	// Resolution errors.
	ErrServiceNotFound = errors.New("service not found")
	ErrProviderNil     = errors.New("provider cannot be nil")
	ErrMarkerNil       = errors.New("marker cannot be nil")
	ErrConstructorNil  = errors.New("constructor cannot be nil")

	// Container errors.
	ErrContainerNil    = errors.New("container cannot be nil")
	ErrContainerClosed = errors.New("container has been closed")
	ErrServiceTypeNil  = errors.New("service type cannot be nil")
)

var (
	_ error = ResolutionError{}
	_ error = RegistrationError{}
	_ error = TypeMismatchError{}
	_ error = InvocationError{}
	_ error = ModuleError{}
	_ error = DisposalError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================
// Always use these typed errors instead of fmt.Errorf() or errors.New()
// for domain-specific errors. Wrap sentinel errors with these types.

// ResolutionError wraps errors that occur while resolving a dependency,
// whether through a marker, a provider, or a container lookup.
type ResolutionError struct {
	ServiceType reflect.Type
	ServiceName string         // empty for unnamed services
	Cause       error
	Available   []reflect.Type // Types that ARE registered (optional, for suggestions)
}

func (e ResolutionError) Error() string {
	var b strings.Builder

	if e.ServiceName != "" {
		b.WriteString(fmt.Sprintf("failed to resolve %s (name: %q)", formatType(e.ServiceType), e.ServiceName))
	} else {
		b.WriteString(fmt.Sprintf("failed to resolve %s", formatType(e.ServiceType)))
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	// Suggest similar types if available
	if len(e.Available) > 0 {
		similar := findSimilarTypes(e.ServiceType, e.Available)
		if len(similar) > 0 {
			b.WriteString("\n\nDid you mean one of these?\n")
			for _, t := range similar {
				b.WriteString(fmt.Sprintf("  • %s\n", formatType(t)))
			}
		}
	}

	return b.String()
}

func (e ResolutionError) Unwrap() error {
	return e.Cause
}

// findSimilarTypes finds types with similar names using a simple substring/prefix match
func findSimilarTypes(target reflect.Type, available []reflect.Type) []reflect.Type {
	if target == nil || len(available) == 0 {
		return nil
	}

	targetName := target.String()
	targetShortName := target.Name()
	if targetShortName == "" {
		targetShortName = targetName
	}

	var similar []reflect.Type
	for _, t := range available {
		if t == nil || t == target {
			continue
		}

		typeName := t.String()
		typeShortName := t.Name()
		if typeShortName == "" {
			typeShortName = typeName
		}

		// Check for name similarity:
		// - Same short name (different packages)
		// - One contains the other
		if targetShortName == typeShortName ||
			strings.Contains(strings.ToLower(typeName), strings.ToLower(targetShortName)) ||
			strings.Contains(strings.ToLower(targetName), strings.ToLower(typeShortName)) {
			similar = append(similar, t)
		}

		// Limit suggestions
		if len(similar) >= 5 {
			break
		}
	}

	return similar
}

// RegistrationError wraps errors during provider registration.
type RegistrationError struct {
	ServiceType reflect.Type
	ServiceName string
	Cause       error
}

func (e RegistrationError) Error() string {
	if e.ServiceName != "" {
		return fmt.Sprintf("failed to register %s (name: %q): %v", formatType(e.ServiceType), e.ServiceName, e.Cause)
	}
	return fmt.Sprintf("failed to register %s: %v", formatType(e.ServiceType), e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a type assertion or conversion failed.
type TypeMismatchError struct {
	Expected reflect.Type
	Actual   reflect.Type
	Context  string // "type assertion", "argument substitution", etc.
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Context, formatType(e.Expected), formatType(e.Actual))
}

// InvocationError indicates a function passed to Call, Bind, or Invoke
// could not be validated or invoked.
type InvocationError struct {
	Func  reflect.Type // nil when the value was not a function
	Cause error
}

func (e InvocationError) Error() string {
	if e.Func != nil {
		return fmt.Sprintf("cannot invoke %s: %v", formatType(e.Func), e.Cause)
	}
	return fmt.Sprintf("cannot invoke: %v", e.Cause)
}

func (e InvocationError) Unwrap() error {
	return e.Cause
}

// ModuleError wraps errors from module registration.
type ModuleError struct {
	Module string
	Cause  error
}

func (e ModuleError) Error() string {
	return fmt.Sprintf("module %q: %v", e.Module, e.Cause)
}

func (e ModuleError) Unwrap() error {
	return e.Cause
}

// DisposalError aggregates disposal errors
type DisposalError struct {
	Context string // "container", "singleton"
	Errors  []error
}

func (e DisposalError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s disposal failed: %v", e.Context, e.Errors[0])
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s disposal failed with %d errors:", e.Context, len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
	}
	return sb.String()
}

func (e DisposalError) Unwrap() []error {
	return e.Errors
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	// Handle common cases with cleaner output
	switch t.Kind() {
	case reflect.Pointer:
		// Format pointers as *Type instead of *package.Type
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	case reflect.Func:
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
