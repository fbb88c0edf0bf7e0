package httpapi

import (
	"context"
)

// serverBaseCtx is canceled when the service shuts down so that solves
// blocked on the solver gate unwind instead of holding connections open.
var serverBaseCtx = context.Background()

// SetBaseContext installs the shutdown context handlers derive from.
// A nil ctx resets to Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// joinContexts ties a solve to both the shutdown context and the request
// context: whichever ends first cancels the solve. Callers must invoke the
// cancel func once the handler returns to reap the watcher goroutine.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-a.Done():
			cancel()
		case <-b.Done():
			cancel()
		}
	}()
	return ctx, cancel
}
