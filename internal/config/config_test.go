package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
# comment
database:
  host: db.local
  port: 5433
  user: app
  password: secret
  database: storefront

rabbitmq:
  host: mq.local
  port: 5672
  user: guest
  password: guest
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "db.local", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	require.Equal(t, "storefront", cfg.Database.Database)
	require.Equal(t, "mq.local", cfg.RabbitMQ.Host)
	require.Equal(t, 5672, cfg.RabbitMQ.Port)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: db.local
  port: 5432
  user: app
  password: secret
  database: storefront

rabbitmq:
  host: mq.local
  port: 5672
  user: guest
  password: guest
`)

	t.Setenv("STOREFRONT_DB_HOST", "db.override")
	t.Setenv("STOREFRONT_AMQP_PORT", "5673")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "db.override", cfg.Database.Host)
	require.Equal(t, 5673, cfg.RabbitMQ.Port)
}

func TestLoad_InvalidPort(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: db.local
  port: not-a-port
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestURLs(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "storefront"},
		RabbitMQ: RabbitMQConfig{Host: "mq", Port: 5672, User: "guest", Password: "guest"},
	}

	require.Equal(t, "postgres://u:p@db:5432/storefront?sslmode=disable", cfg.DatabaseURL())
	require.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQURL())
}
