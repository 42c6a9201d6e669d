// Package email delivers coach notifications through AWS SESv2.
package email

import "context"

// Sender provides a testable abstraction over SES delivery.
type Sender interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
