package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hilthontt/signals/internal/infrastructure/configs"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	EventAuditLogsCollection = "event_audit_logs"

	DefaultDatabase          = "signals"
	DefaultConnectionTimeout = 20 * time.Second
)

var ErrMissingMongoURI = errors.New("mongodb uri is required")

// Mongo is a connected client bound to the configured database.
type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
	timeout  time.Duration
}

func ConnectMongo(ctx context.Context, cfg configs.MongoDBConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, ErrMissingMongoURI
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultConnectionTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName("signals").
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	m := &Mongo{
		Client:   client,
		Database: client.Database(cfg.Database),
		timeout:  timeout,
	}

	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	return m, nil
}

// Ping checks the primary is reachable within the connection timeout.
func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
