package pricesync

import (
	"context"
	"time"

	"tandem/core"
	"tandem/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/property"
)

const checkpointKey = "price_sync_checkpoint"

// Worker mirrors the upstream oracle feed into the price store
type Worker struct {
	worker.TickWorker
	propertyStore property.Store
	prices        core.IPriceStore
	feed          core.IPriceFeed
	feedID        string
}

// New price sync worker for the configured default feed; a runtime feed
// switch through the price_feed property takes effect on the next tick
func New(propertyStore property.Store, prices core.IPriceStore, feed core.IPriceFeed, feedID string) *Worker {
	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    10 * time.Second,
			ErrDelay: 30 * time.Second,
		},
		propertyStore: propertyStore,
		prices:        prices,
		feed:          feed,
		feedID:        feedID,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "pricesync")
	ctx = logger.WithContext(ctx, log)

	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx)

	feedID, err := w.activeFeedID(ctx)
	if err != nil {
		log.WithError(err).Errorln("read active feed")
		return err
	}

	round, err := w.feed.LatestRound(ctx, feedID)
	if err != nil {
		log.WithError(err).Errorln("pull latest round")
		return err
	}

	// checkpoints are per feed, a feed switch restarts from its own round ids
	checkpoint := checkpointKey + ":" + feedID
	v, err := w.propertyStore.Get(ctx, checkpoint)
	if err != nil {
		return err
	}
	if round.RoundID <= v.Int64() {
		return nil
	}

	if err := w.prices.Save(ctx, round); err != nil {
		log.WithError(err).Errorln("save round")
		return err
	}

	if err := w.propertyStore.Save(ctx, checkpoint, round.RoundID); err != nil {
		log.WithError(err).Errorln("save checkpoint")
		return err
	}

	log.WithField("feed", feedID).WithField("round", round.RoundID).Debugln("round synced")
	return nil
}

func (w *Worker) activeFeedID(ctx context.Context) (string, error) {
	v, err := w.propertyStore.Get(ctx, core.PropertyPriceFeed)
	if err != nil {
		return "", err
	}

	if id := v.String(); id != "" {
		return id, nil
	}
	return w.feedID, nil
}
