package configloader

import (
	"errors"
	"fmt"
	"os"

	"cca_wallet/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath    = "config/config.yml"
	PathEnvVar     = "CCA_WALLET_CONFIG"
	DefaultChainID = "cca"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int    `yaml:"idleTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// RestClientConfig tunes the client for the chains' REST endpoints.
type RestClientConfig struct {
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimit            float64 `yaml:"rateLimit"` // requests per second, 0 disables limiting
	BurstLimit           int     `yaml:"burstLimit"`
}

// WalletBridgeConfig points at the external wallet process that holds the keys.
type WalletBridgeConfig struct {
	BaseURL              string `yaml:"baseURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TransactionConfig holds the fixed fee attached to transfers.
type TransactionConfig struct {
	FeeAmount string `yaml:"feeAmount"`
	GasLimit  uint64 `yaml:"gasLimit"`
}

// SwaggerConfig holds configuration for Swagger UI.
type SwaggerConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// CORSConfig lists the origins allowed to call the HTTP API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server        ServerConfig             `yaml:"server"`
	Logging       LoggingConfig            `yaml:"logging"`
	Chains        []entity.ChainDefinition `yaml:"chains"`
	SelectedChain string                   `yaml:"selectedChain"`
	RestClient    RestClientConfig         `yaml:"restClient"`
	WalletBridge  WalletBridgeConfig       `yaml:"walletBridge"`
	Transaction   TransactionConfig        `yaml:"transaction"`
	Swagger       SwaggerConfig            `yaml:"swagger"`
	CORS          CORSConfig               `yaml:"cors"`
}

// ResolvePath picks the config path: an explicit flag value wins, then the
// environment variable, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(PathEnvVar); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals raw YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data: %v", err)
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
		logrus.Infof("Server.Port not set, defaulting to %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 10
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 30
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.SelectedChain == "" {
		cfg.SelectedChain = DefaultChainID
		logrus.Infof("SelectedChain not set, defaulting to %q", cfg.SelectedChain)
	}
	if cfg.RestClient.RequestTimeoutMillis <= 0 {
		cfg.RestClient.RequestTimeoutMillis = 10000
		logrus.Infof("RestClient.RequestTimeoutMillis not set, defaulting to %d ms", cfg.RestClient.RequestTimeoutMillis)
	}
	if cfg.RestClient.RateLimit > 0 && cfg.RestClient.BurstLimit <= 0 {
		cfg.RestClient.BurstLimit = 1
	}
	if cfg.WalletBridge.BaseURL == "" {
		cfg.WalletBridge.BaseURL = "http://localhost:9090"
		logrus.Infof("WalletBridge.BaseURL not set, defaulting to %s", cfg.WalletBridge.BaseURL)
	}
	if cfg.WalletBridge.RequestTimeoutMillis <= 0 {
		cfg.WalletBridge.RequestTimeoutMillis = 60000
	}
	if cfg.Transaction.FeeAmount == "" {
		cfg.Transaction.FeeAmount = "500"
	}
	if cfg.Transaction.GasLimit == 0 {
		cfg.Transaction.GasLimit = 200000
	}
	if cfg.Swagger.Path == "" {
		cfg.Swagger.Path = "/swagger"
	}
}

func validate(cfg *Config) error {
	seen := make(map[string]struct{}, len(cfg.Chains))
	for i, chain := range cfg.Chains {
		if chain.ChainID == "" {
			return fmt.Errorf("chains[%d]: chainId is required", i)
		}
		if _, dup := seen[chain.ChainID]; dup {
			return fmt.Errorf("chains[%d]: duplicate chainId %q", i, chain.ChainID)
		}
		seen[chain.ChainID] = struct{}{}
		if chain.RESTEndpoint == "" {
			logrus.Warnf("Chain %q has no restEndpoint configured, the predefined endpoint will be used if one exists", chain.ChainID)
		}
	}
	if cfg.RestClient.RateLimit < 0 {
		return errors.New("restClient.rateLimit must not be negative")
	}
	return nil
}
