package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/localnerve/viverodb/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// DatabaseContainer is a throwaway database server and the config that reaches it
type DatabaseContainer struct {
	Container testcontainers.Container
	Config    *config.Config
}

// Terminate stops the container. t may be nil outside of tests.
func (dc *DatabaseContainer) Terminate(t *testing.T) {
	if dc == nil || dc.Container == nil {
		return
	}
	if err := dc.Container.Terminate(context.Background()); err != nil {
		logMessage(t, "Failed to terminate database container: %v", err)
	}
}

// StartDatabase starts the DB_IMAGE container for DB_TYPE (mysql, mariadb or postgres).
// The database, user and password come from DB_DATABASE, DB_USER and DB_PASSWORD.
func StartDatabase(ctx context.Context) (*DatabaseContainer, error) {
	dbType := os.Getenv("DB_TYPE")
	image := os.Getenv("DB_IMAGE")
	if image == "" {
		return nil, fmt.Errorf("DB_IMAGE is required")
	}

	cfg := &config.Config{
		DBType:            dbType,
		DBDatabase:        envOr("DB_DATABASE", "viverodb"),
		DBUser:            envOr("DB_USER", "vivero"),
		DBPassword:        envOr("DB_PASSWORD", "vivero"),
		DBConnectionLimit: 5,
		DBLogLevel:        envOr("DB_LOG_LEVEL", "warn"),
	}

	containerPort := "3306"
	if dbType == "postgres" {
		containerPort = "5432"
	}
	tcpPort, err := nat.NewPort("tcp", containerPort)
	if err != nil {
		return nil, fmt.Errorf("failed to create DB port: %w", err)
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{string(tcpPort)},
			Env:          initEnv(cfg),
			WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start database: %w", err)
	}
	dc := &DatabaseContainer{Container: container, Config: cfg}

	host, err := container.Host(ctx)
	if err != nil {
		dc.Terminate(nil)
		return nil, fmt.Errorf("failed to get database host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		dc.Terminate(nil)
		return nil, fmt.Errorf("failed to get database port: %w", err)
	}
	cfg.DBHost = host
	cfg.DBPort = mapped.Port()

	return dc, nil
}

func initEnv(cfg *config.Config) map[string]string {
	switch cfg.DBType {
	case "postgres":
		return map[string]string{
			"POSTGRES_PASSWORD": cfg.DBPassword,
			"POSTGRES_USER":     cfg.DBUser,
			"POSTGRES_DB":       cfg.DBDatabase,
		}
	}
	return map[string]string{
		"MYSQL_ROOT_PASSWORD": cfg.DBPassword,
		"MYSQL_DATABASE":      cfg.DBDatabase,
		"MYSQL_USER":          cfg.DBUser,
		"MYSQL_PASSWORD":      cfg.DBPassword,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
