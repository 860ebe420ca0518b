// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Job is one file to encode.
type Job struct {
	In  string
	Out string
}

// EncodeFiles encodes jobs with at most workers running at once (one per
// CPU when workers < 1). The first failure cancels the jobs that have not
// finished yet and is returned; outputs already written are kept.
func (p *Pipeline) EncodeFiles(ctx context.Context, jobs []Job, workers int) error {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for _, job := range jobs {
		eg.Go(func() (err error) {
			if err := egCtx.Err(); err != nil {
				return err
			}

			defer p.track(egCtx, opEncode, time.Now(), &err)
			if err := p.encodeFile(egCtx, job.In, job.Out); err != nil {
				return fmt.Errorf("encoding %s: %w", job.In, err)
			}

			p.logger.Info("encoded", "in", job.In, "out", job.Out)
			return nil
		})
	}

	return eg.Wait()
}
