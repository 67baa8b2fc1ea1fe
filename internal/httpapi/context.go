package httpapi

import "context"

// serverBaseCtx is the process-level context handlers derive generation
// contexts from. Cancelling it (on shutdown) aborts in-flight generations
// even when their client connections are still open.
var serverBaseCtx = context.Background()

// SetBaseContext installs the process-level base context. A nil ctx restores
// the default Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	serverBaseCtx = ctx
}

// joinContexts derives a context cancelled when either parent is done. The
// returned cancel must be called when the handler finishes so the watcher
// goroutine exits.
func joinContexts(a, b context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		select {
		case <-a.Done():
		case <-b.Done():
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
