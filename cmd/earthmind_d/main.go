package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/fslock"
	"github.com/spf13/cobra"

	"github.com/earthmind-network/earthmind-go/client/api/http_api"
	"github.com/earthmind-network/earthmind-go/client/config"
	"github.com/earthmind-network/earthmind-go/client/modules/state"
	"github.com/earthmind-network/earthmind-go/client/services/node"
	"github.com/earthmind-network/earthmind-go/common"
	"github.com/earthmind-network/earthmind-go/events"
)

const (
	flagConfigPath               = "config"
	flagNodeName                 = "node_name"
	flagListenAddr               = "listen_addr"
	flagStateDBDSN               = "state_dbdsn"
	flagEventsJournal            = "events_journal"
	flagKafkaEnabled             = "kafka_enabled"
	flagKafkaBrokerEndpoint      = "kafka_broker_endpoint"
	flagKafkaTopic               = "kafka_topic"
	flagKafkaProducerCredentials = "producer_credentials"
	flagKafkaTrustStorePath      = "kafka_truststore_path"
)

func init() {
	rootCmd.PersistentFlags().String(flagConfigPath, "", "Path to a yaml config file")
	rootCmd.PersistentFlags().String(flagNodeName, "earthmind_node", "Node name")
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Listen Address")
	rootCmd.PersistentFlags().String(flagStateDBDSN, "./earthmind_state", "State DBDSN")
	rootCmd.PersistentFlags().String(flagEventsJournal, "", "Path to an append-only event journal file")
	rootCmd.PersistentFlags().Bool(flagKafkaEnabled, false, "Publish events to Kafka")
	rootCmd.PersistentFlags().String(flagKafkaBrokerEndpoint, "localhost:9092", "Kafka broker endpoint")
	rootCmd.PersistentFlags().String(flagKafkaTopic, "earthmind_events", "Kafka topic for events")
	rootCmd.PersistentFlags().String(flagKafkaProducerCredentials, "", "Producer credentials for Kafka: username:password")
	rootCmd.PersistentFlags().String(flagKafkaTrustStorePath, "", "Path to kafka truststore")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString(flagConfigPath)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Explicit flags win over the config file.
	if cmd.Flags().Changed(flagNodeName) {
		cfg.NodeName, _ = cmd.Flags().GetString(flagNodeName)
	}
	if cmd.Flags().Changed(flagListenAddr) {
		cfg.HttpApiConfig.ListenAddr, _ = cmd.Flags().GetString(flagListenAddr)
	}
	if cmd.Flags().Changed(flagStateDBDSN) {
		cfg.StateDBDSN, _ = cmd.Flags().GetString(flagStateDBDSN)
	}
	if cmd.Flags().Changed(flagEventsJournal) {
		cfg.EventsJournal, _ = cmd.Flags().GetString(flagEventsJournal)
	}
	if cmd.Flags().Changed(flagKafkaEnabled) {
		cfg.KafkaSinkConfig.Enabled, _ = cmd.Flags().GetBool(flagKafkaEnabled)
	}
	if cmd.Flags().Changed(flagKafkaBrokerEndpoint) {
		cfg.KafkaSinkConfig.BrokerEndpoint, _ = cmd.Flags().GetString(flagKafkaBrokerEndpoint)
	}
	if cmd.Flags().Changed(flagKafkaTopic) {
		cfg.KafkaSinkConfig.Topic, _ = cmd.Flags().GetString(flagKafkaTopic)
	}
	if cmd.Flags().Changed(flagKafkaProducerCredentials) {
		cfg.KafkaSinkConfig.ProducerCredentials, _ = cmd.Flags().GetString(flagKafkaProducerCredentials)
	}
	if cmd.Flags().Changed(flagKafkaTrustStorePath) {
		cfg.KafkaSinkConfig.TrustStorePath, _ = cmd.Flags().GetString(flagKafkaTrustStorePath)
	}

	return cfg, nil
}

func buildSink(cfg *config.Config, logger common.Logger, closers *[]func() error) (events.Sink, error) {
	sinks := events.MultiSink{events.NewLoggerSink(logger)}

	if cfg.EventsJournal != "" {
		fileSink, err := events.NewFileSink(cfg.EventsJournal)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, fileSink.Close)
		sinks = append(sinks, fileSink)
	}

	if cfg.KafkaSinkConfig.Enabled {
		producerCreds, err := config.ParseCredentials(cfg.KafkaSinkConfig.ProducerCredentials)
		if err != nil {
			return nil, err
		}
		tlsConfig, err := config.GetTLSConfig(cfg.KafkaSinkConfig.TrustStorePath)
		if err != nil {
			return nil, err
		}
		kafkaSink := events.NewKafkaSink(
			cfg.KafkaSinkConfig.BrokerEndpoint,
			cfg.KafkaSinkConfig.Topic,
			tlsConfig,
			producerCreds,
			cfg.KafkaSinkConfig.Timeout,
		)
		*closers = append(*closers, kafkaSink.Close)
		sinks = append(sinks, kafkaSink)
	}

	return sinks, nil
}

func startNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "starts earthmind node",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				log.Fatalf("failed to read configuration: %v", err)
			}

			logger := common.NewLogger(cfg.NodeName)

			// One daemon per state DB.
			stateLock := fslock.New(cfg.StateDBDSN + ".lock")
			if err := stateLock.TryLock(); err != nil {
				log.Fatalf("State DB %s is locked by another instance: %v", cfg.StateDBDSN, err)
			}
			defer stateLock.Unlock()

			st, err := state.NewLevelDBState(cfg.StateDBDSN, cfg.KafkaSinkConfig.Topic)
			if err != nil {
				log.Fatalf("Failed to init state: %v", err)
			}

			var closers []func() error
			sink, err := buildSink(cfg, logger, &closers)
			if err != nil {
				log.Fatalf("Failed to init event sink: %v", err)
			}

			nodeService, err := node.NewNode(cfg, st, logger, sink)
			if err != nil {
				log.Fatalf("Failed to init node: %v", err)
			}

			server := &http_api.RESTApiProvider{}
			if err := server.NewServer(cfg, nodeService); err != nil {
				log.Fatalf("Failed to init HTTP server: %v", err)
			}

			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigs

				log.Println("Received signal, stopping node...")

				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Stop(ctx); err != nil {
					log.Printf("Failed to stop HTTP server: %v", err)
				}

				for _, closeFn := range closers {
					if err := closeFn(); err != nil {
						log.Printf("Failed to close event sink: %v", err)
					}
				}
				if err := st.Close(); err != nil {
					log.Printf("Failed to close state: %v", err)
				}

				log.Println("Node stopped, exiting")
				os.Exit(0)
			}()

			logger.Log("starting HTTP server on %s", cfg.HttpApiConfig.ListenAddr)
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("HTTP server error: %v", err)
			}
			select {}
		},
	}
}

var rootCmd = &cobra.Command{
	Use:   "earthmind_d",
	Short: "earthmind governance node daemon implementation",
}

func main() {
	rootCmd.AddCommand(
		startNodeCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}
