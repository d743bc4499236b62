package stats

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/corey/chatstat/internal/domain/category"
	"github.com/corey/chatstat/internal/ports"
)

// Analyze runs the batch category pass once the message stream is exhausted.
//
// Each entity's buffer is matched independently on a bounded worker pool;
// the matcher is shared read-only and each worker writes only its own
// result slot. Results are then merged into the entities, curse_count and
// the group aggregate sequentially, in first-observed order. Buffers are
// released afterwards. Calling Analyze twice is an error.
func (c *Collector) Analyze(ctx context.Context) error {
	if c.analyzed {
		return fmt.Errorf("category pass already ran")
	}
	c.analyzed = true
	start := time.Now()

	results := make([]ports.CategoryCounts, len(c.order))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Workers)
	for i, e := range c.order {
		if len(e.Acc.text) == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.cfg.Matcher.Match(string(e.Acc.text))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("category pass: %w", err)
	}

	group := c.group.Acc
	for i, e := range c.order {
		e.Acc.text = nil
		counts := results[i]
		if len(counts) == 0 {
			continue
		}
		e.Acc.AddCategoryCounts(counts)
		group.AddCategoryCounts(counts)
		curses := Multiset(counts[category.Curses]).Total()
		e.Acc.CurseCount += curses
		group.CurseCount += curses
	}

	c.cfg.Metrics.CategoryPass(time.Since(start), len(c.order))
	c.log.Debug().Int("entities", len(c.order)).Dur("took", time.Since(start)).Msg("category pass done")
	return nil
}
