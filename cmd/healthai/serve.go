package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmitriimaksimovdevelop/healthai/internal/api"
	"github.com/dmitriimaksimovdevelop/healthai/internal/ingest"
	"github.com/dmitriimaksimovdevelop/healthai/internal/mcp"
	"github.com/dmitriimaksimovdevelop/healthai/internal/output"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		src  seriesFlags
		addr string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Serve the dashboard, scoring, export and advisory endpoints over HTTP.

The session starts with a series loaded from --data, or a generated one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			series, err := src.load()
			if err != nil {
				return err
			}
			a.sess.ReplaceSeries(series)

			if addr == "" {
				addr = a.cfg.HTTPAddr
			}
			ctx, stop := signalContext()
			defer stop()

			srv := api.New(a.sess, a.provider.Advisor(), a.log.Named("api"))
			return srv.Run(ctx, addr)
		},
	}
	src.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: HTTP_ADDR or :8080)")
	return cmd
}

func newIngestCmd(a *app) *cobra.Command {
	var (
		save     string
		username string
		password string
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Record vital samples published over MQTT",
		Long: `Subscribe to MQTT_TOPIC on MQTT_BROKER and append every received sample
to the session series. On exit the recorded series is written to --save.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.MQTTBroker == "" {
				return fmt.Errorf("MQTT_BROKER is not set")
			}
			log := a.log.Named("ingest")
			client, err := ingest.NewClient(ingest.ClientConfig{
				Broker:   a.cfg.MQTTBroker,
				ClientID: a.cfg.MQTTClientID,
				Username: username,
				Password: password,
			}, nil)
			if err != nil {
				return err
			}
			defer client.Disconnect()

			ctx, stop := signalContext()
			defer stop()

			rec := ingest.NewRecorder(a.sess, log)
			if err := rec.Run(ctx, client, a.cfg.MQTTTopic); err != nil {
				return err
			}

			series := a.sess.Series()
			if save == "" || series.Len() == 0 {
				return nil
			}
			if err := output.ExportCSV(save, series); err != nil {
				return err
			}
			log.Info("series saved", zap.String("path", save), zap.Int("samples", series.Len()))
			return nil
		},
	}
	cmd.Flags().StringVar(&save, "save", "", "Write the recorded series to this CSV file on exit")
	cmd.Flags().StringVar(&username, "username", "", "MQTT username")
	cmd.Flags().StringVar(&password, "password", "", "MQTT password")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	var src seriesFlags
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start Model Context Protocol (MCP) server",
		Long: `Starts a JSON-RPC server implementing the Model Context Protocol (MCP).
This lets AI agents (e.g., Claude Desktop, Cursor) classify vitals,
summarize the loaded series and request trend analysis.

Communication happens over standard input/output (stdio).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if src.data != "" {
				series, err := src.load()
				if err != nil {
					return err
				}
				a.sess.ReplaceSeries(series)
			}

			ctx, stop := signalContext()
			defer stop()

			srv := mcp.NewServer(version, a.sess, a.provider.Advisor(), a.log.Named("mcp"))
			return srv.Start(ctx)
		},
	}
	src.register(cmd)
	return cmd
}
