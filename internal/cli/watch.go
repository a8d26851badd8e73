package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/wellness-events/internal/config"
	"github.com/magabrotheeeer/wellness-events/internal/rabbitmq"
	"github.com/magabrotheeeer/wellness-events/internal/services/scheduler"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		queue      string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print events as the scheduler marks them completed",
		Long:  "Binds its own queue to the events exchange and prints every completed event message until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath == "" {
				configPath = os.Getenv("CONFIG_PATH")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			ch, err := rabbitmq.SetupChannel(conn, rabbitmq.EventsExchange, []rabbitmq.QueueConfig{
				{QueueName: queue, RoutingKey: rabbitmq.CompletedRoutingKey},
			})
			if err != nil {
				return err
			}
			defer func() { _ = ch.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			out := cmd.OutOrStdout()
			if err := rabbitmq.ConsumerMessage(ctx, log, ch, queue, func(body []byte) error {
				return printCompleted(out, body)
			}); err != nil {
				return err
			}

			log.Info("watching completed events", slog.String("queue", queue))
			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file, defaults to $CONFIG_PATH")
	cmd.Flags().StringVar(&queue, "queue", rabbitmq.CompletedQueue+".watch", "queue to bind to the completed routing key")
	return cmd
}

func printCompleted(out io.Writer, body []byte) error {
	var msg scheduler.CompletedMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		// Битое сообщение подтверждается и пропускается.
		fmt.Fprintf(out, "skip malformed message: %v\n", err)
		return nil
	}
	_, err := fmt.Fprintf(out, "%s #%d %q %s .. %s (%d min)\n",
		msg.Status, msg.ID, msg.Title, msg.StartTime, msg.EndTime, msg.DurationMinutes)
	return err
}
