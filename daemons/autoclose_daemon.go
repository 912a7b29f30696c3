package daemons

import (
	"context"
	"log/slog"
	"time"

	"github.com/nttcom/threatconnectome-sub000/dtos"
	"github.com/nttcom/threatconnectome-sub000/monitoring"
)

// runDaemons walks every tag and applies the auto-close decision to its open
// tickets. The walk is sequential per tag; inside a tag the batch fans out on
// the service's worker pool.
func (runner *DaemonRunner) runDaemons() {
	daemonStart := time.Now()
	slog.Info("starting background jobs", "time", time.Now())

	tags, err := runner.tagRepository.All()
	if err != nil {
		monitoring.Alert("could not load tags. Cannot run auto-close batch.", err)
		return
	}

	closed := 0
	indeterminate := 0
	for _, tag := range tags {
		ctx, cancel := context.WithTimeout(context.Background(), runner.batchTimeout)
		verdicts, err := runner.autoCloseService.AutoCloseAllForTag(ctx, tag.ID)
		cancel()
		if err != nil {
			slog.Error("auto-close batch failed for tag", "tagID", tag.ID, "tagName", tag.Name, "err", err)
			continue
		}
		for _, verdict := range verdicts {
			switch verdict.Decision {
			case dtos.AutoCloseEligible:
				closed++
			case dtos.AutoCloseIndeterminate:
				indeterminate++
			}
		}
	}

	slog.Info("background jobs finished", "duration", time.Since(daemonStart), "tags", len(tags), "autoClosed", closed, "manualReview", indeterminate)
}
