package program

import (
	"context"
	"fmt"

	"github.com/claude/trainplan/internal/models"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency bounds concurrent generations in GenerateBatch.
const DefaultBatchConcurrency = 4

// GenerateBatch generates one program per profile, running up to limit
// generations at once. Results are in input order. The first error cancels
// the remaining work and is returned.
func (g *Generator) GenerateBatch(ctx context.Context, profiles []models.Profile, limit int) ([]*models.Program, error) {
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}
	out := make([]*models.Program, len(profiles))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, p := range profiles {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			prog, err := g.Generate(egCtx, p)
			if err != nil {
				return fmt.Errorf("profile %d: %w", i, err)
			}
			out[i] = prog
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
