package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	LastFM struct {
		APIKey       string `mapstructure:"api_key"`
		User         string `mapstructure:"user"`
		BaseURL      string `mapstructure:"base_url"`
		ContactEmail string `mapstructure:"contact_email"`
	} `mapstructure:"lastfm"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Server struct {
		APIPort         string `mapstructure:"api_port"`
		MetricsPort     string `mapstructure:"metrics_port"`
		PollingInterval int    `mapstructure:"polling_interval_seconds"`
		LogLevel        string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Storage struct {
		Provider string `mapstructure:"provider"`
		LocalDir string `mapstructure:"local_dir"`
		KeyID    string `mapstructure:"key_id"`
		AppKey   string `mapstructure:"app_key"`
		Endpoint string `mapstructure:"endpoint"`
		Region   string `mapstructure:"region"`
		Bucket   string `mapstructure:"bucket"`
	} `mapstructure:"storage"`
}

func Load() *Config {
	viper.SetEnvPrefix("ARCHIVER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("lastfm.api_key")
	viper.BindEnv("lastfm.user")
	viper.BindEnv("lastfm.base_url")
	viper.BindEnv("lastfm.contact_email")

	viper.BindEnv("database.path")

	viper.BindEnv("server.api_port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.polling_interval_seconds")
	viper.BindEnv("server.log_level")

	// Storage (export targets)
	viper.BindEnv("storage.provider")
	viper.BindEnv("storage.local_dir")
	viper.BindEnv("storage.key_id")
	viper.BindEnv("storage.app_key")
	viper.BindEnv("storage.endpoint")
	viper.BindEnv("storage.region")
	viper.BindEnv("storage.bucket")

	// Defaults
	viper.SetDefault("lastfm.base_url", "https://ws.audioscrobbler.com")
	viper.SetDefault("database.path", "plays.db")
	viper.SetDefault("server.api_port", ":8081")
	viper.SetDefault("server.metrics_port", ":9091")
	// last.fm caps recenttracks pages at 200 rows; 15 minutes keeps us
	// far below their rate limits even for heavy listeners.
	viper.SetDefault("server.polling_interval_seconds", 900)
	viper.SetDefault("server.log_level", "error")
	viper.SetDefault("storage.provider", "local")
	viper.SetDefault("storage.local_dir", "./exports")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	return &cfg
}

// RequireLastFM aborts unless the last.fm credentials are present. Only the
// archiver talks to last.fm; the API server and exporter run without them.
func (c *Config) RequireLastFM() {
	if c.LastFM.APIKey == "" {
		log.Fatal("Critical: last.fm API key is missing (ARCHIVER_LASTFM_API_KEY)")
	}
	if c.LastFM.User == "" {
		log.Fatal("Critical: last.fm username is missing (ARCHIVER_LASTFM_USER)")
	}
}
