package container

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/km-arc/go-container/framework/config"
)

// ErrProtectedAccessDenied is returned by GetService for a protected
// definition. No construction takes place.
var ErrProtectedAccessDenied = errors.New("container: protected service")

// ErrInvalidBulkInit is returned when only one of configs/services is
// supplied to NewWithDefinitions.
var ErrInvalidBulkInit = errors.New("container: supply both configs and services or none")

// UnknownServiceError reports an operation on an id that was never registered.
type UnknownServiceError struct {
	ID string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("container: no service registered for [%s]", e.ID)
}

// UnknownConfigKeyError is the config store's missing-key error.
type UnknownConfigKeyError = config.UnknownKeyError

// ConstructionFailure wraps anything that went wrong while invoking a
// constructor, factory method or call: missing class, missing method,
// arity or argument type mismatch, a returned error or a panic.
type ConstructionFailure struct {
	ID     string
	Class  string
	Method string
	Cause  error
}

func (e *ConstructionFailure) Error() string {
	target := e.Class
	if e.Method != "" {
		target += "::" + e.Method
	}
	return fmt.Sprintf("container: building [%s] via %s: %v", e.ID, target, e.Cause)
}

func (e *ConstructionFailure) Unwrap() error { return e.Cause }

// UnresolvedTokenCycleError is reported by the optional depth guard, or when
// shared service tokens meet an id already being built.
type UnresolvedTokenCycleError struct {
	Path []string
}

func (e *UnresolvedTokenCycleError) Error() string {
	return fmt.Sprintf("container: unresolved token cycle: %s", strings.Join(e.Path, " -> "))
}

// IsUnknownService reports whether err (or its cause chain) is an
// *UnknownServiceError.
func IsUnknownService(err error) bool {
	var target *UnknownServiceError
	return errors.As(err, &target)
}

// IsUnknownConfigKey reports whether err (or its cause chain) is a missing
// config key.
func IsUnknownConfigKey(err error) bool {
	var target *UnknownConfigKeyError
	return errors.As(err, &target)
}

// IsConstructionFailure reports whether err (or its cause chain) is a
// *ConstructionFailure.
func IsConstructionFailure(err error) bool {
	var target *ConstructionFailure
	return errors.As(err, &target)
}
