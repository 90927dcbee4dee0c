package util

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy for pod-cleaner
var (
	// ErrConfiguration indicates the credential directory is missing, unreadable or empty.
	// It is the only error that aborts a whole invocation.
	ErrConfiguration = errors.New("configuration error")

	// ErrClusterUnavailable indicates a connect, list or delete call against one cluster failed
	ErrClusterUnavailable = errors.New("cluster unavailable")

	// ErrBatchHandler indicates a dispatched batch handler failed or panicked
	ErrBatchHandler = errors.New("batch handler failed")

	// ErrPodNotFound indicates the pod was already gone when the delete was issued
	ErrPodNotFound = errors.New("pod not found")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCancelled indicates an operation was cancelled
	ErrCancelled = errors.New("operation cancelled")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")
)

// ClusterError wraps a per-cluster failure with the cluster and operation it happened in.
// It matches ErrClusterUnavailable with errors.Is in addition to the wrapped cause.
type ClusterError struct {
	ClusterName string
	Op          string
	Err         error
}

// Error implements the error interface
func (e *ClusterError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("cluster %q: %v", e.ClusterName, e.Err)
	}
	return fmt.Sprintf("cluster %q: %s: %v", e.ClusterName, e.Op, e.Err)
}

// Unwrap returns the wrapped error and ErrClusterUnavailable for errors.Is/As compatibility
func (e *ClusterError) Unwrap() []error {
	return []error{e.Err, ErrClusterUnavailable}
}

// WrapClusterError wraps an error with cluster context
func WrapClusterError(clusterName, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ClusterError{
		ClusterName: clusterName,
		Op:          op,
		Err:         err,
	}
}

// ClusterNameOf returns the cluster name carried by err, if any
func ClusterNameOf(err error) (string, bool) {
	var ce *ClusterError
	if errors.As(err, &ce) {
		return ce.ClusterName, true
	}
	return "", false
}

// MultiError aggregates multiple errors
type MultiError struct {
	Errors []error
}

// Error implements the error interface
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}

	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d errors occurred:", len(m.Errors)))
	for i, err := range m.Errors {
		if i < 10 {
			sb.WriteString(fmt.Sprintf("\n  %d. %v", i+1, err))
		} else if i == 10 {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more errors", len(m.Errors)-10))
			break
		}
	}
	return sb.String()
}

// Unwrap returns the errors for errors.Is/As compatibility
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Add adds an error to the multi-error
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// ErrorOrNil returns nil if no errors were added, otherwise returns the MultiError
func (m *MultiError) ErrorOrNil() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

// NewMultiError creates a new MultiError from a slice of errors, dropping nils
func NewMultiError(errs []error) *MultiError {
	m := &MultiError{
		Errors: make([]error, 0, len(errs)),
	}
	for _, err := range errs {
		if err != nil {
			m.Errors = append(m.Errors, err)
		}
	}
	return m
}

// ConfigurationError builds an ErrConfiguration with a formatted detail message
func ConfigurationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// IsConfigurationError checks if an error is fatal to the whole invocation
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsClusterUnavailable checks if an error is isolated to a single cluster
func IsClusterUnavailable(err error) bool {
	return errors.Is(err, ErrClusterUnavailable)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if an error is a cancellation error
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsNotFound checks if an error reports an already-deleted pod
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPodNotFound)
}

// IsPermissionError checks if an error is a permission error
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// FriendlyError converts technical errors to operator-facing messages
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case IsConfigurationError(err):
		return fmt.Sprintf("Configuration error: %v. Check --kubeconfig-dir or the KUBECONFIG_DIR environment variable.", unwrapDetail(err))
	case IsTimeout(err):
		return "Operation timed out. Please try again or increase the timeout value with --timeout flag."
	case IsCancelled(err):
		return "Operation was cancelled."
	case IsPermissionError(err):
		return "Permission denied. Please check your cluster credentials and RBAC permissions."
	case IsClusterUnavailable(err):
		return fmt.Sprintf("Cluster unavailable: %v", err)
	default:
		return err.Error()
	}
}

// unwrapDetail strips the sentinel prefix from a configuration error message
func unwrapDetail(err error) string {
	msg := err.Error()
	prefix := ErrConfiguration.Error() + ": "
	if idx := strings.Index(msg, prefix); idx != -1 {
		return msg[idx+len(prefix):]
	}
	return msg
}

// CombineErrors combines multiple errors into a single error
// Returns nil if all errors are nil
func CombineErrors(errs ...error) error {
	m := NewMultiError(errs)
	return m.ErrorOrNil()
}
