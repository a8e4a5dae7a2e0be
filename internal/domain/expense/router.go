package expense

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"barinalp/internal/core/apperror"
)

// Page is a screen controller reachable by route name.
type Page interface {
	Name() string
}

// Enterer is implemented by pages that prepare themselves when navigated to.
type Enterer interface {
	Enter(ctx context.Context) error
}

// Leaver is implemented by pages that discard state when navigated away from.
type Leaver interface {
	Leave(ctx context.Context)
}

// Router maps route names to page controllers built by the caller.
type Router struct {
	mu      sync.Mutex
	pages   map[string]Page
	current string
}

// NewRouter creates a router with the given pages.
func NewRouter(pages ...Page) (*Router, error) {
	r := &Router{pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a page under its name.
func (r *Router) Register(p Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("page name is empty")
	}
	if _, exists := r.pages[name]; exists {
		return apperror.NewConflict("page already registered").WithDetail("route", name)
	}
	r.pages[name] = p
	return nil
}

// Navigate leaves the current page and enters the named one.
func (r *Router) Navigate(ctx context.Context, name string) (Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, ok := r.pages[name]
	if !ok {
		return nil, apperror.NewNotFound("page", name)
	}

	if prev, ok := r.pages[r.current]; ok && r.current != name {
		if l, ok := prev.(Leaver); ok {
			l.Leave(ctx)
		}
	}

	if e, ok := next.(Enterer); ok {
		if err := e.Enter(ctx); err != nil {
			return nil, fmt.Errorf("enter %s: %w", name, err)
		}
	}

	r.current = name
	return next, nil
}

// Current returns the active page, or nil before the first navigation.
func (r *Router) Current() Page {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pages[r.current]
}

// Routes lists registered route names in sorted order.
func (r *Router) Routes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
