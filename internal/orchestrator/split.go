package orchestrator

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/griffnb/core-jsonschema/internal/document"
	"github.com/griffnb/core-jsonschema/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Split assembles one document per root concurrently, bounded by the number
// of CPUs. Every document has its own registry. Results are sorted by root
// identity so output does not depend on goroutine scheduling.
func (s *Service) Split(ctx context.Context, source domain.Source) ([]*document.Document, error) {
	roots := source.Roots()
	if len(roots) == 0 {
		return nil, fmt.Errorf("no root types to assemble")
	}

	var (
		mu        sync.Mutex
		collected = make([]*document.Document, 0, len(roots))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	s.config.Debug.Printf("Orchestrator: assembling %d documents (parallel, limit=%d)", len(roots), runtime.NumCPU())

	for _, root := range roots {
		root := root

		g.Go(func() error {
			doc, err := document.Assemble(gctx, source, []domain.Identity{root}, s.options())
			if err != nil {
				return fmt.Errorf("failed to assemble %s: %w", root, err)
			}

			mu.Lock()
			collected = append(collected, doc)
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].Roots[0].String() < collected[j].Roots[0].String()
	})

	return collected, nil
}
