// Package mailer delivers outbound email over SMTP.
package mailer

import "context"

// Mailer sends a single formatted email. Send reports transport failures to
// the caller; delivery is not fire-and-forget.
type Mailer interface {
	// Send delivers one HTML email to the given recipient.
	Send(ctx context.Context, to, subject, htmlBody string) error
}
