package usecase

import (
	"context"
	"sync"
	"sync/atomic"
)

type gateKey struct{}

// opToken marks a context as belonging to a running engine operation.
type opToken struct {
	g    *gate
	done atomic.Bool
}

// gate serializes engine operations. A call whose context carries the
// token of the operation currently holding the gate is a reentrant call
// made from inside a fund transfer; it proceeds without locking and sees
// the state the outer operation already committed.
type gate struct {
	mu sync.Mutex
}

func (g *gate) enter(ctx context.Context) (context.Context, func()) {
	if tok, ok := ctx.Value(gateKey{}).(*opToken); ok && tok.g == g && !tok.done.Load() {
		return ctx, func() {}
	}
	g.mu.Lock()
	tok := &opToken{g: g}
	return context.WithValue(ctx, gateKey{}, tok), func() {
		tok.done.Store(true)
		g.mu.Unlock()
	}
}
