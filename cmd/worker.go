package cmd

import (
	"os/signal"
	"syscall"

	"menupick-admin-worker/services/callback"
	"menupick-admin-worker/services/rabbitmq"
	"menupick-admin-worker/services/report"
	"menupick-admin-worker/services/trackLog"
	"menupick-admin-worker/services/worker"

	"github.com/spf13/cobra"
)

func workerCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume the catalog-ingest and selection-report queues",
		Long:  "Consume the catalog-ingest and selection-report queues. The HTTP API keeps running alongside so the probes can inspect the queue connection.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, opts, "worker")
			if err != nil {
				return err
			}
			defer a.close()
			defer a.logger.WithField("task", "main").Error("worker shutdown")

			client := callback.NewClient(a.config.Server.AppAPI)
			reports := report.NewReportService(a.tally, a.store, client, a.logger)
			w := worker.New(a.engine, reports, a.store, client, a.metrics, a.logger)

			conn := rabbitmq.NewConnection(worker.ConnectionName, a.config.RabbitMQ.Domain, worker.Queues)
			if err := w.Run(conn); err != nil {
				return err
			}
			defer func() {
				if conn.Conn != nil {
					_ = conn.Conn.Close()
				}
				trackLog.Info("rabbitmq connection closed", true)
			}()

			return listen(ctx, a, worker.ConnectionName)
		},
	}
}
