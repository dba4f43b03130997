package handler

import (
	"context"

	"clearview/internal/cache"
	"clearview/internal/domain/models/records"
	recordsRepo "clearview/internal/domain/repositories/records"
	"clearview/internal/service/lifecycle"
	"clearview/internal/service/ordering"

	"golang.org/x/sync/errgroup"
)

// WarmCache loads every public list into the cache concurrently,
// using the same keys and loaders as the public endpoints.
func WarmCache(ctx context.Context, c *cache.CollectionCache, collections *ordering.Registry, sets *lifecycle.Registry) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, col := range collections.All() {
		g.Go(func() error {
			_, err := c.GetOrLoad(ctx, string(col.Collection()), func(ctx context.Context) (any, error) {
				return col.List(ctx)
			})
			return err
		})
	}

	testimonials, err := sets.Get(string(records.KindTestimonials))
	if err != nil {
		return err
	}
	g.Go(func() error {
		_, err := c.GetOrLoad(ctx, string(testimonials.Kind()), func(ctx context.Context) (any, error) {
			return testimonials.List(ctx, recordsRepo.ListFilter{State: recordsRepo.FilterActive, PublicOnly: true})
		})
		return err
	})

	return g.Wait()
}
