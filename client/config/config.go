package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/spf13/viper"
)

type HttpApiConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Debug      bool   `mapstructure:"debug"`
}

type KafkaSinkConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	BrokerEndpoint      string        `mapstructure:"broker_endpoint"`
	Topic               string        `mapstructure:"topic"`
	ProducerCredentials string        `mapstructure:"producer_credentials"`
	TrustStorePath      string        `mapstructure:"truststore_path"`
	Timeout             time.Duration `mapstructure:"timeout"`

	TlsConfig *tls.Config `mapstructure:"-"`
}

type Config struct {
	NodeName string `mapstructure:"node_name"`

	StateDBDSN string `mapstructure:"state_dbdsn"`

	// EventsJournal is an optional append-only file the node mirrors every
	// emitted event line into. Empty disables the journal.
	EventsJournal string `mapstructure:"events_journal"`

	HttpApiConfig   *HttpApiConfig   `mapstructure:"http_api_config"`
	KafkaSinkConfig *KafkaSinkConfig `mapstructure:"kafka_sink_config"`
}

func Default() *Config {
	return &Config{
		NodeName:   "earthmind_node",
		StateDBDSN: "./earthmind_state",
		HttpApiConfig: &HttpApiConfig{
			ListenAddr: "localhost:8080",
		},
		KafkaSinkConfig: &KafkaSinkConfig{
			Topic:   "earthmind_events",
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads an optional yaml config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// GetTLSConfig builds a TLS config trusting the CA certificate at the given
// path. An empty path means plaintext.
func GetTLSConfig(trustStorePath string) (*tls.Config, error) {
	if trustStorePath == "" {
		return nil, nil
	}
	caCert, err := os.ReadFile(trustStorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read truststore %s: %w", trustStorePath, err)
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse truststore %s", trustStorePath)
	}
	return &tls.Config{RootCAs: caCertPool}, nil
}

// ParseCredentials splits a "username:password" pair into a SASL/plain
// mechanism for the Kafka sink.
func ParseCredentials(creds string) (*plain.Mechanism, error) {
	if creds == "" {
		return nil, nil
	}
	for i := 0; i < len(creds); i++ {
		if creds[i] == ':' {
			return &plain.Mechanism{
				Username: creds[:i],
				Password: creds[i+1:],
			}, nil
		}
	}
	return nil, fmt.Errorf("failed to parse credentials")
}
