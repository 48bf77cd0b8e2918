package error

import "errors"

// Notification errors.
var (
	// ErrNotificationQueueFailed is returned when a notification cannot be written to the outbox.
	ErrNotificationQueueFailed = errors.New("failed to queue notification")

	// ErrUnknownNotificationKind is returned when the outbox holds a kind with no template.
	ErrUnknownNotificationKind = errors.New("unknown notification kind")

	// ErrDeliveryRejected is returned when the provider refuses a message for good.
	ErrDeliveryRejected = errors.New("notification rejected by provider")

	// ErrDeliveryUnavailable is returned when the provider may accept the message later.
	ErrDeliveryUnavailable = errors.New("notification provider unavailable")
)

// NotificationErrorCode defines error codes for notification errors.
// Format: NTF-XXYYYY where XX is category and YYYY is specific error.
type NotificationErrorCode string

const (
	// Outbox errors (01XXXX)
	ErrCodeNotificationQueueFailed NotificationErrorCode = "NTF-010001"
	ErrCodeRecipientLookupFailed   NotificationErrorCode = "NTF-010002"

	// Delivery errors (02XXXX)
	ErrCodeDeliveryRejected    NotificationErrorCode = "NTF-020001"
	ErrCodeDeliveryUnavailable NotificationErrorCode = "NTF-020002"

	// Rendering errors (03XXXX)
	ErrCodeUnknownNotificationKind NotificationErrorCode = "NTF-030001"
	ErrCodeRenderFailed            NotificationErrorCode = "NTF-030002"
)

// NotificationError represents a notification error with code and message.
type NotificationError struct {
	Code    NotificationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *NotificationError) Unwrap() error {
	return e.Err
}

// NewNotificationError creates a new NotificationError with the given code and message.
func NewNotificationError(code NotificationErrorCode, message string, err error) *NotificationError {
	return &NotificationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsPermanentDeliveryFailure reports whether retrying the notification cannot help.
func IsPermanentDeliveryFailure(err error) bool {
	return errors.Is(err, ErrDeliveryRejected) || errors.Is(err, ErrUnknownNotificationKind)
}
