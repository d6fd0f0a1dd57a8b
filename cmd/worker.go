package cmd

import (
	"tandem/service/oracle"
	"tandem/worker"
	"tandem/worker/pricesync"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "tandem job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		propertyStore := providePropertyStore(database)
		priceStore := providePriceStore(database)
		feed := oracle.NewFeed(cfg.Oracle.EndPoint)

		workers := []worker.Worker{
			pricesync.New(propertyStore, priceStore, feed, cfg.Oracle.FeedID),
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			log.WithError(err).Error("worker exited")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
