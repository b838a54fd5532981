package cmd

import (
	"encoding/json"
	"fmt"

	"menupick-admin-worker/enums"
	"menupick-admin-worker/services/rabbitmq"
	"menupick-admin-worker/structs"

	"github.com/spf13/cobra"
)

const enqueueConnectionName = "menupick-enqueue"

func enqueueReportCommand(opts *options) *cobra.Command {
	var param structs.ReportQueueParam

	cmd := &cobra.Command{
		Use:   "enqueue-report",
		Short: "Publish a selection-report job for the worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			if param.MessType == "" {
				return fmt.Errorf("--mess-type is required")
			}
			config, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			param.QueueType = enums.QueueSelectionReport
			body, err := json.Marshal(param)
			if err != nil {
				return err
			}

			conn := rabbitmq.NewConnection(enqueueConnectionName, config.RabbitMQ.Domain, []string{enums.QueueSelectionReport})
			if err := conn.Connect(); err != nil {
				return err
			}
			defer conn.Conn.Close()
			if err := conn.BindQueue(); err != nil {
				return err
			}
			if err := conn.Publish(rabbitmq.Message{
				Queue: enums.QueueSelectionReport,
				Body:  rabbitmq.MessageBody{Data: body, Type: enums.QueueSelectionReport},
			}); err != nil {
				return err
			}
			fmt.Printf("queued %s task %d for %s\n", enums.QueueSelectionReport, param.TaskID, param.MessType)
			return nil
		},
	}
	cmd.Flags().UintVar(&param.TaskID, "task-id", 0, "Task id echoed back in the callback")
	cmd.Flags().StringVar(&param.MessType, "mess-type", "", "Mess type the report is built for")
	return cmd
}
