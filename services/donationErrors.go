package services

import "errors"

var (
	ErrSubmissionInProgress    = errors.New("a donation checkout is already in progress")
	ErrGatewayCancelled        = errors.New("payment was cancelled")
	ErrNoPendingCheckout       = errors.New("no checkout is awaiting the payment gateway")
	ErrAttemptResolved         = errors.New("checkout attempt already resolved")
	ErrInvalidPaymentSignature = errors.New("payment signature does not match")
	ErrGatewayNotConfigured    = errors.New("payment gateway is not configured")
)

// ValidationError is bad user input. The form can be corrected in place.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// GatewayError means the hosted checkout could not be loaded or opened.
// Retrying is safe because nothing has been charged.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "Failed to load payment gateway. Please try again."
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// PersistenceError is returned when the gateway reported a successful
// payment but the donation record could not be written. Funds may have
// moved without a record.
type PersistenceError struct {
	Payment_ID string
	Err        error
}

func (e *PersistenceError) Error() string {
	return "Payment successful but failed to save record. Please contact us."
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
