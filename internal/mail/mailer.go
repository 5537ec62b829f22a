package mail

import "context"

// Mailer delivers outbound mail. Services depend on this interface only;
// transport configuration lives entirely in the environment.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
