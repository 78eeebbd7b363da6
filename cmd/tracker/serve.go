package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
)

func serveCmd() *cobra.Command {
	var rateLimit int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *cli.Session) error {
				// Only durable backends describe themselves on /healthz
				storage, _ := s.Backend.Store.(apphttp.StorageStatus)
				srv := apphttp.NewServer(appConfig.Addr(), s.Tracker, apphttp.Options{
					Logger:    logger,
					CacheTTL:  appConfig.CacheTTL,
					CacheSize: appConfig.CacheSize,
					RateLimit: rateLimit,
					Storage:   storage,
				})

				g, ctx := errgroup.WithContext(cmd.Context())
				g.Go(func() error {
					logger.Info("Starting tracker server",
						log.FieldOperation, log.OpStartup,
						"addr", appConfig.Addr(),
						"backend", appConfig.DataBackend,
						"revision", s.Tracker.Revision())
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					return cli.GracefulShutdown(ctx, logger, appConfig.ShutdownTimeout, func(sctx context.Context) error {
						return srv.Shutdown(sctx)
					})
				})
				return g.Wait()
			})
		},
	}

	cmd.Flags().IntVar(&rateLimit, "rate-limit", 60, "mutating requests allowed per client per minute")
	return cmd
}
