// Package lifecycle bridges the note event stream into the generic
// lifecycle supervision model, so note mutations can drive supervised
// consumers the same way file or signal sources do.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/silt/pkg/core"
)

type noteSource struct {
	in  <-chan core.Event
	out chan lifecycle.Event
}

// NewSource wraps a note event channel (as returned by Service.Subscribe)
// in a lifecycle.Source. The source closes its output when the input
// channel closes or the context is canceled.
func NewSource(in <-chan core.Event) lifecycle.Source {
	return &noteSource{
		in:  in,
		out: make(chan lifecycle.Event),
	}
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start launches the forwarding goroutine under lifecycle.Go so the
// bridge itself is supervised. core.Event satisfies lifecycle.Event
// through its String method.
func (s *noteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.in:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
