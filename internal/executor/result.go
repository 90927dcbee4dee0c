package executor

import (
	"fmt"
	"strings"
	"time"
)

// Result describes the outcome of a single batch
type Result struct {
	// Index is the batch position in partition order
	Index int

	// Size is the number of items in the batch
	Size int

	// Error is set when the handler failed, panicked, or never ran
	Error error

	// Panicked reports whether the handler panicked
	Panicked bool

	// Duration is how long the handler ran
	Duration time.Duration
}

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	return len(results) - CountSuccessful(results)
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// GetErrors extracts all errors from results
func GetErrors(results []Result) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}
	return errs
}

// ItemsProcessed returns the number of items in successful batches
func ItemsProcessed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Error == nil {
			n += r.Size
		}
	}
	return n
}

// HasErrors returns true if any results contain errors
func HasErrors(results []Result) bool {
	for _, r := range results {
		if r.Error != nil {
			return true
		}
	}
	return false
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(results []Result) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(results)) / float64(len(results)) * 100.0
}

// Summary provides a summary of dispatch results
type Summary struct {
	Batches     int
	Successful  int
	Failed      int
	Items       int
	MaxDuration time.Duration
}

// Summarize creates a summary of the results
func Summarize(results []Result) Summary {
	s := Summary{
		Batches:    len(results),
		Successful: CountSuccessful(results),
		Failed:     CountFailed(results),
	}
	for _, r := range results {
		s.Items += r.Size
		if r.Duration > s.MaxDuration {
			s.MaxDuration = r.Duration
		}
	}
	return s
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Batches: %d, ", s.Batches))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Batches > 0 {
		sb.WriteString(fmt.Sprintf(", Items: %d", s.Items))
		sb.WriteString(fmt.Sprintf(", Slowest: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}
