package driver

import (
	"context"
	"io"
	"os"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RunAll runs jobs concurrently, each with its own builder. The first failure
// cancels jobs that have not started writing; results keep the jobs' order.
func RunAll(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}
	limit := opts.Jobs
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	opts.Stdout = &lockedWriter{w: out}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(limit, len(jobs)))
	for i, job := range jobs {
		g.Go(func() error {
			res, err := Run(gctx, job, opts)
			results[i] = res
			return err
		})
	}
	return results, g.Wait()
}

// lockedWriter keeps stdout jobs from interleaving.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
