package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, the HTTP server, the connection
// to the openLCA engine and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8000" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response.
		// It has to cover the full calculation polling window.
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"3m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request,
		// applied via http.TimeoutHandler on top of the polling deadline
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"150s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Engine contains the connection settings for the openLCA IPC server
	Engine struct {
		// Endpoint is the URL of the engine's IPC server
		Endpoint string `env:"OLCA_ENDPOINT" env-default:"http://localhost:8080" yaml:"endpoint"`
		// RequestTimeout bounds a single IPC call to the engine
		RequestTimeout time.Duration `env:"OLCA_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// PollInterval is the fixed interval between result state checks
		PollInterval time.Duration `env:"OLCA_POLL_INTERVAL" env-default:"500ms" yaml:"pollInterval"`
		// CalcTimeout is the maximum time to wait for a calculation to become ready
		CalcTimeout time.Duration `env:"OLCA_CALC_TIMEOUT" env-default:"120s" yaml:"calcTimeout"`
	} `yaml:"engine"`

	// Sankey contains defaults applied when the frontend omits query parameters
	Sankey struct {
		// MaxNodes is the default node limit of the contribution graph
		MaxNodes int `env:"SANKEY_MAX_NODES" env-default:"25" yaml:"maxNodes"`
		// MinShare is the default minimum contribution share in percent
		MinShare float64 `env:"SANKEY_MIN_SHARE" env-default:"0" yaml:"minShare"`
	} `yaml:"sankey"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
