package main

import (
	"context"
	"log/slog"
	"sync"

	"streamsite/internal/middleware"
)

type releaseStep struct {
	name string
	fn   func(context.Context) error
}

// releaser runs shutdown steps once, newest first, whichever exit path
// reaches it first. A failing step is logged and the rest still run.
type releaser struct {
	mu    sync.Mutex
	once  sync.Once
	steps []releaseStep
}

func (r *releaser) add(name string, fn func(context.Context) error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, releaseStep{name: name, fn: fn})
}

func (r *releaser) run(ctx context.Context) {
	r.once.Do(func() {
		r.mu.Lock()
		steps := r.steps
		r.mu.Unlock()

		for i := len(steps) - 1; i >= 0; i-- {
			if err := steps[i].fn(ctx); err != nil {
				middleware.Logger.ErrorContext(ctx, steps[i].name+" shutdown error",
					slog.String("error", err.Error()))
			}
		}
	})
}
