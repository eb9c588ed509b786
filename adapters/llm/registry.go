// Package llm implements the generative bridge: a provider registry with
// timeout-race and fallback semantics, plus the concrete text providers.
package llm

import (
	"context"
	"sort"
	"sync"
	"time"

	"scenforge/domain/core"
	"scenforge/models"
	"scenforge/ports"
)

// Registry maps logical provider names to text providers and enforces the
// timeout and fallback discipline around each invocation. Names bind
// lazily: an operation may reference a name that is registered later, any
// time before it is invoked. Each engine owns its own registry unless
// callers share one explicitly.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ports.TextProvider
	usage     map[string]*models.ProviderUsage
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]ports.TextProvider),
		usage:     make(map[string]*models.ProviderUsage),
	}
}

// Register binds a provider to a name. Re-registering a name overwrites the
// previous entry: the last registration wins.
func (r *Registry) Register(name string, provider ports.TextProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// RegisterFunc binds a bare function as a provider.
func (r *Registry) RegisterFunc(name string, fn ports.ProviderFunc) {
	r.Register(name, fn)
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) resolve(name string) (ports.TextProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[name]
	return provider, ok
}

// outcome carries one provider call's settlement.
type outcome struct {
	text string
	err  error
}

// Invoke resolves the named provider and runs one call under the request's
// timeout and fallback rules.
//
// The call runs in its own goroutine and settles into a capacity-1 channel:
// when the timer wins the race, the loser's eventual settlement lands in
// the buffer and is discarded instead of leaking. The timer, not the call
// context's deadline, decides the race, so a context-honoring provider
// cannot turn a timeout into an ambiguous provider error; its context is
// cancelled only after the timer has already won.
func (r *Registry) Invoke(ctx context.Context, req ports.InvokeRequest) (string, error) {
	provider, ok := r.resolve(req.Provider)
	if !ok {
		return "", core.NewProviderNotRegisteredError(req.Provider)
	}

	started := time.Now()
	r.record(req.Provider, func(u *models.ProviderUsage) { u.Calls++ })

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	settled := make(chan outcome, 1)
	go func() {
		text, err := provider.GenerateText(callCtx, req.Prompt, req.Model)
		settled <- outcome{text: text, err: err}
	}()

	var out outcome
	if req.Timeout > 0 {
		timer := time.NewTimer(req.Timeout)
		defer timer.Stop()
		select {
		case out = <-settled:
		case <-timer.C:
			cancel()
			r.record(req.Provider, func(u *models.ProviderUsage) {
				u.Timeouts++
				u.TotalLatencyMs += time.Since(started).Milliseconds()
			})
			if req.Fallback != nil {
				r.record(req.Provider, func(u *models.ProviderUsage) { u.Fallbacks++ })
				return *req.Fallback, nil
			}
			return "", core.NewTimeoutError(req.Provider, req.Timeout)
		}
	} else {
		out = <-settled
	}

	elapsed := time.Since(started)
	if out.err != nil {
		r.record(req.Provider, func(u *models.ProviderUsage) {
			u.Failures++
			u.TotalLatencyMs += elapsed.Milliseconds()
		})
		if req.Fallback != nil {
			r.record(req.Provider, func(u *models.ProviderUsage) { u.Fallbacks++ })
			return *req.Fallback, nil
		}
		return "", out.err
	}

	r.record(req.Provider, func(u *models.ProviderUsage) {
		u.Successes++
		u.TotalLatencyMs += elapsed.Milliseconds()
	})
	return out.text, nil
}

// Usage returns a snapshot of per-provider accounting, sorted by name.
func (r *Registry) Usage() []models.ProviderUsage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make([]models.ProviderUsage, 0, len(r.usage))
	for _, u := range r.usage {
		snapshot = append(snapshot, *u)
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].Provider < snapshot[j].Provider })
	return snapshot
}

func (r *Registry) record(name string, update func(*models.ProviderUsage)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.usage[name]
	if !ok {
		u = &models.ProviderUsage{Provider: name}
		r.usage[name] = u
	}
	update(u)
}
