package domain

import "fmt"

// Recoverable generation statuses. A failure in this set still leaves the
// pipeline with usable references, so it routes to the degraded publisher
// instead of ending the run.
const (
	statusUnauthorized       = 401
	statusPaymentRequired    = 402
	statusForbidden          = 403
	statusNotFound           = 404
	statusTooManyRequests    = 429
	statusInternalServer     = 500
	statusBadGateway         = 502
	statusServiceUnavailable = 503
)

// GenerationError reports a failed call to the generation service. Status is
// the HTTP status when a response was received, 0 otherwise (transport
// failure, or a success response carrying no completions).
type GenerationError struct {
	Status int
	Reason string
}

func (e *GenerationError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("generation failed: %s", e.Reason)
	}
	return fmt.Sprintf("generation failed with status %d: %s", e.Status, e.Reason)
}

// Recoverable reports whether the failure should produce a degraded stub
// rather than ending the run unpublished.
func (e *GenerationError) Recoverable() bool {
	switch e.Status {
	case statusUnauthorized,
		statusPaymentRequired,
		statusForbidden,
		statusNotFound,
		statusTooManyRequests,
		statusInternalServer,
		statusBadGateway,
		statusServiceUnavailable:
		return true
	}
	return false
}
