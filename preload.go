package prez

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/k1LoW/errors"
	"golang.org/x/sync/errgroup"
)

// imageResult holds the result of one parallel fetch.
type imageResult struct {
	ref   string
	image *Image
}

// preloadImages fetches every image the specs refer to before rendering
// starts, so slide assembly never blocks on the network. A missing local
// file logs a warning and the slide renders without its image; any other
// failure aborts generation.
func (g *Generator) preloadImages(ctx context.Context, specs Specs) (map[string]*Image, error) {
	loaded := map[string]*Image{}
	refs := specs.imageRefs()
	if len(refs) == 0 {
		return loaded, nil
	}

	// Process images in parallel
	const maxWorkers = 8

	refCh := make(chan string, len(refs))
	resultCh := make(chan imageResult, len(refs))

	eg, ctx := errgroup.WithContext(ctx)
	numWorkers := min(maxWorkers, len(refs))

	for range numWorkers {
		eg.Go(func() error {
			for ref := range refCh {
				img, err := NewImage(ctx, g.httpClient, ref)
				if err != nil {
					var nf *AssetNotFoundError
					if errors.As(err, &nf) {
						g.logger.Warn("image not found, skipping", slog.String("image", ref))
						continue
					}
					return fmt.Errorf("failed to preload image %s: %w", ref, err)
				}
				select {
				case resultCh <- imageResult{ref: ref, image: img}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	// Send work to workers
	go func() {
		defer close(refCh)
		for _, ref := range refs {
			refCh <- ref
		}
	}()

	// Close result channel when all workers are done
	go func() {
		_ = eg.Wait()
		close(resultCh)
	}()

	for res := range resultCh {
		if res.image != nil {
			loaded[res.ref] = res.image
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to preload images: %w", err)
	}
	return loaded, nil
}
