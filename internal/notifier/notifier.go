package notifier

import "context"

// Notifier delivers a formatted report to one channel. Channels that cannot
// render HTML ignore the html body.
type Notifier interface {
	Notify(ctx context.Context, subject, text, html string) error
	Name() string
}
