package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr           string
		AllowedOrigins string `mapstructure:"allowed_origins"`
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`
}

// Load reads configuration from the given file, with APP_* environment
// variables taking precedence. A missing config file is not an error; the
// environment alone can carry the full configuration.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", "")
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("metrics.enabled", true)

	var c Config
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Postgres.DSN = dsn
	}
	return c, nil
}
