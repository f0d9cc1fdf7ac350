package notify

import (
	"context"
	"errors"

	"go.uber.org/multierr"
)

// ErrDisabled is returned by a sink that has no destination configured.
var ErrDisabled = errors.New("notifier disabled")

type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}

// Multi mirrors a message to every configured sink.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, subject, body string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, subject, body))
	}
	return err
}
