package common

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testPostgresImage = "docker.io/postgres:14.11-bookworm"
	testRabbitImage   = "rabbitmq:3.12.11-management-alpine"
)

// TestRabbitMQ starts a broker for the duration of t and returns its AMQP URL.
func TestRabbitMQ(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	broker, err := rabbitmq.Run(ctx, testRabbitImage,
		rabbitmq.WithAdminUsername("guest"),
		rabbitmq.WithAdminPassword("guest"),
	)
	require.NoError(t, err, "start rabbitmq")
	t.Cleanup(func() { _ = broker.Terminate(ctx) })

	uri, err := broker.AmqpURL(ctx)
	require.NoError(t, err, "rabbitmq url")

	return uri
}

// TestDB starts postgres, applies the migrations found at source and returns an open
// handle. source is relative to the calling package, e.g. "file://../../migrations".
func TestDB(source string, t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgres.Run(ctx, testPostgresImage,
		postgres.WithDatabase("rayspace_test"),
		postgres.WithUsername("rayspace"),
		postgres.WithPassword("rayspace"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "start postgres")
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "postgres dsn")

	m, err := Migrate(source, dsn)
	require.NoError(t, err, "migrate")
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	db, err := NewDB(dsn, 5, 5, time.Minute)
	require.NoError(t, err, "open postgres")
	t.Cleanup(func() { _ = CloseDB(db) })

	return db
}
