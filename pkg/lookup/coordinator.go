package lookup

import (
	"context"
	"sync"

	"github.com/niprobin/curated-digging/pkg/entity"
)

// Failure records one provider's error.
type Failure struct {
	Provider string
	Err      error
}

// Result is the settled outcome of a lookup session: every provider has
// either produced a link or a failure. Partial success is a valid
// outcome, not an error.
type Result struct {
	EntityID string
	Links    []Link
	Failures []Failure
}

// FindAll runs every provider concurrently and waits for all of them to
// settle. One provider failing never cancels or fails its siblings.
func FindAll(ctx context.Context, providers []Provider, query string) ([]Link, []Failure) {
	type outcome struct {
		link Link
		fail *Failure
	}
	outcomes := make([]outcome, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			link, err := p.Find(ctx, query)
			if err != nil {
				outcomes[i] = outcome{fail: &Failure{Provider: p.Name(), Err: err}}
				return
			}
			outcomes[i] = outcome{link: link}
		}(i, p)
	}
	wg.Wait()

	var links []Link
	var failures []Failure
	for _, o := range outcomes {
		if o.fail != nil {
			failures = append(failures, *o.fail)
		} else {
			links = append(links, o.link)
		}
	}
	return links, failures
}

// Coordinator enforces at-most-one outstanding lookup per surface.
// Starting a new lookup cancels the previous one, and a superseded
// session's result is dropped without touching shared state.
type Coordinator struct {
	providers []Provider

	mu      sync.Mutex
	token   uint64
	cancel  context.CancelFunc
	pending string // entity id of the in-flight session, for observability
}

func NewCoordinator(providers ...Provider) *Coordinator {
	return &Coordinator{providers: providers}
}

// Start launches a lookup session for e. Any prior outstanding session is
// cancelled immediately. apply runs exactly once if and only if this
// session is still current when its providers settle; apply must not call
// back into the coordinator.
func (c *Coordinator) Start(ctx context.Context, e entity.Entity, apply func(Result)) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	sessionCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.token++
	token := c.token
	c.pending = e.ID
	c.mu.Unlock()

	go func() {
		links, failures := FindAll(sessionCtx, c.providers, Query(e))

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.token != token {
			// Superseded while in flight; drop the result silently.
			return
		}
		c.cancel = nil
		c.pending = ""
		cancel()
		apply(Result{EntityID: e.ID, Links: links, Failures: failures})
	}()
}

// Cancel aborts any outstanding session without starting a new one.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.token++
	c.pending = ""
}

// Pending returns the entity id of the in-flight session, or "".
func (c *Coordinator) Pending() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
