package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"expensetracker/internal/amqp"
	"expensetracker/internal/log"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print snapshot change notifications as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if appConfig.AMQPURL == "" {
				return errors.New("AMQP_URL is not configured")
			}

			client, err := amqp.NewClient(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue,
				logger.WithComponent(log.ComponentAMQP))
			if err != nil {
				return fmt.Errorf("failed to initialize AMQP client: %w", err)
			}
			defer client.Close()

			logger.Info("Watching snapshot changes", "exchange", appConfig.AMQPExchange, "queue", appConfig.AMQPQueue)
			err = client.ConsumeChanges(cmd.Context(), func(msg *amqp.SnapshotChangedMessage) error {
				fmt.Printf("%s  revision %d  %s\n",
					msg.Timestamp.Local().Format("2006-01-02 15:04:05"), msg.Revision, msg.Operation)
				return nil
			})
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}
			return err
		},
	}
}
