package ingest

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one payload of a batch
type BatchResult struct {
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	Error  string  `json:"error,omitempty"`
}

// IngestBatch ingests payloads concurrently, at most Workers at a time.
// Results are in payload order. A payload that fails does not stop the
// others; only a done context aborts the batch.
func (s *Service) IngestBatch(ctx context.Context, format Format, payloads [][]byte) ([]BatchResult, error) {
	results := make([]BatchResult, len(payloads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, data := range payloads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.IngestPayload(ctx, format, data)
			if err != nil {
				slog.Warn("Skipping receipt in batch", "index", i, "error", err)
				results[i] = BatchResult{Err: err, Error: err.Error()}
				return nil
			}
			results[i] = BatchResult{Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
