package match

import (
	"context"
	"log"
	"time"

	"github.com/playmines/backend/internal/config"
)

// StartReaper starts a background worker that retires overdue active matches.
// The lazy evaluator already guarantees correctness on every read and write;
// the reaper only makes timeouts visible to nobody-is-watching matches.
func StartReaper(ctx context.Context, engine *Engine, cfg *config.Config) {
	if engine == nil || cfg == nil {
		log.Println("[REAPER] Engine or config missing; reaper not started")
		return
	}

	log.Println("[REAPER] Match reaper started")
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.ReaperPollSecs) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[REAPER] Match reaper stopping")
				return
			case <-ticker.C:
				swept, err := engine.SweepExpired(ctx)
				if err != nil {
					log.Printf("[REAPER] Sweep failed: %v", err)
					continue
				}
				if swept > 0 {
					log.Printf("[REAPER] Force-finished %d overdue matches", swept)
				}
			}
		}
	}()
}
