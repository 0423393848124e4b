package notification

import (
	"errors"
	"fmt"
)

var ErrNotificationFailed = errors.New("notification failed")

// NotificationError carries the kind of email and the provider detail. It
// matches ErrNotificationFailed under errors.Is.
type NotificationError struct {
	Kind      string
	Recipient string
	Err       error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("%s email to %s failed: %v", e.Kind, e.Recipient, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

func (e *NotificationError) Is(target error) bool {
	return target == ErrNotificationFailed
}
