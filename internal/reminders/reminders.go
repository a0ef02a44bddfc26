// Package reminders models payment reminders as an optional capability.
// Deployments without reminder infrastructure report ErrUnsupported,
// and callers treat that as a normal outcome; reminder availability
// never gates saving or sending an invoice.
package reminders

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrUnsupported indicates the deployment has no reminder capability
var ErrUnsupported = errors.New("payment reminders not supported")

// Scheduler schedules a payment reminder for a persisted invoice
type Scheduler interface {
	ScheduleDueReminder(invoiceID int64, dueDate time.Time) error
}

// Unsupported is the default Scheduler: it declines every request
type Unsupported struct {
	logger *zap.Logger
}

// NewUnsupported creates the declining scheduler
func NewUnsupported(logger *zap.Logger) *Unsupported {
	return &Unsupported{logger: logger}
}

// ScheduleDueReminder always reports ErrUnsupported
func (u *Unsupported) ScheduleDueReminder(invoiceID int64, dueDate time.Time) error {
	u.logger.Debug("Reminder requested but capability unsupported",
		zap.Int64("invoice_id", invoiceID))
	return ErrUnsupported
}
