package classify

import "errors"

// ErrModelUnavailable is returned when no classifier artifact is loaded.
var ErrModelUnavailable = errors.New("model not loaded")

// Reason identifies why a request was rejected before inference.
type Reason string

const (
	ReasonNoData       Reason = "no_data"
	ReasonMissingField Reason = "missing_field"
	ReasonInvalidType  Reason = "invalid_type"
	ReasonOutOfRange   Reason = "out_of_range"
)

// BadInput is a request validation failure. Message is safe to return to
// the client verbatim; the HTTP layer maps BadInput to a 400 response.
type BadInput struct {
	Reason  Reason
	Field   string
	Message string
}

func (e *BadInput) Error() string {
	return e.Message
}

// IsBadInput reports whether err is a request validation failure.
func IsBadInput(err error) bool {
	var bad *BadInput
	return errors.As(err, &bad)
}
