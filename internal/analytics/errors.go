package analytics

import "fmt"

// UpstreamQueryError reports a record source failure while computing a view.
// It is never cached and never retried.
type UpstreamQueryError struct {
	View string
	Err  error
}

func (e *UpstreamQueryError) Error() string {
	return fmt.Sprintf("%s: upstream query failed: %v", e.View, e.Err)
}

func (e *UpstreamQueryError) Unwrap() error {
	return e.Err
}
