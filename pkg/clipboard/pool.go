package clipboard

import (
	"context"
	"sync"
)

// Pool hands out one Publisher per owner, so overlapping publishes are only
// dropped when they come from the same owner. A Publisher lives while one of
// its publishes is in flight.
type Pool struct {
	w    Writer
	opts []Option
	mu   sync.Mutex
	pubs map[string]*pooled
}

type pooled struct {
	pub  *Publisher
	refs int
}

// NewPool returns a Pool whose publishers write to w with opts.
func NewPool(w Writer, opts ...Option) *Pool {
	return &Pool{w: w, opts: opts, pubs: make(map[string]*pooled)}
}

// Publish places html on the clipboard on behalf of owner.
// It follows the rules of Publisher.Publish, scoped to owner.
func (p *Pool) Publish(ctx context.Context, owner, html string) bool {
	pub := p.acquire(owner)
	defer p.release(owner)
	return pub.Publish(ctx, html)
}

// Len returns the number of owners with a publish in flight.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pubs)
}

func (p *Pool) acquire(owner string) *Publisher {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.pubs[owner]
	if !ok {
		e = &pooled{pub: NewPublisher(p.w, p.opts...)}
		p.pubs[owner] = e
	}
	e.refs++
	return e.pub
}

func (p *Pool) release(owner string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.pubs[owner]
	if !ok {
		return
	}
	if e.refs--; e.refs == 0 {
		delete(p.pubs, owner)
	}
}
