package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyphera/gator-permissions/internal/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	schemaSQL = `
CREATE TABLE IF NOT EXISTS gator_state_items (
	namespace  TEXT        NOT NULL,
	item_key   TEXT        NOT NULL,
	value      BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, item_key)
)`

	getItemSQL = `SELECT value FROM gator_state_items WHERE namespace = $1 AND item_key = $2`

	getAllItemsSQL = `SELECT item_key, value FROM gator_state_items WHERE namespace = $1 ORDER BY item_key`

	upsertItemSQL = `
INSERT INTO gator_state_items (namespace, item_key, value, updated_at)
VALUES ($1, $2, $3, NOW())
ON CONFLICT (namespace, item_key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	// serialization_failure
	pgSerializationFailure = "40001"
	defaultTxRetries       = 2
)

// PostgresStore keeps items in a single PostgreSQL table
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore connects to databaseURL and makes sure the items table exists
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{pool: pool, logger: logger.Component("postgres_store")}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetItem(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := validateKey(namespace, key); err != nil {
		return nil, err
	}
	var value []byte
	err := s.pool.QueryRow(ctx, getItemSQL, namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", Path(namespace, key), err)
	}
	return value, nil
}

func (s *PostgresStore) GetAllItems(ctx context.Context, namespace string) ([]Entry, error) {
	if namespace == "" {
		return nil, fmt.Errorf("namespace is required")
	}
	rows, err := s.pool.Query(ctx, getAllItemsSQL, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list namespace %s: %w", namespace, err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var entry Entry
		err := row.Scan(&entry.Key, &entry.Value)
		return entry, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan namespace %s: %w", namespace, err)
	}
	return entries, nil
}

func (s *PostgresStore) SetItem(ctx context.Context, namespace, key string, value []byte) error {
	return s.BatchSetItems(ctx, namespace, []Entry{{Key: key, Value: value}})
}

// BatchSetItems upserts every entry inside one transaction, sent as a single pgx batch
func (s *PostgresStore) BatchSetItems(ctx context.Context, namespace string, entries []Entry) error {
	if err := validateEntries(namespace, entries); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	return s.withTransactionRetry(ctx, defaultTxRetries, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, entry := range entries {
			value := entry.Value
			if value == nil {
				value = []byte{}
			}
			batch.Queue(upsertItemSQL, namespace, entry.Key, value)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to upsert %d items: %w", len(entries), err)
		}
		return nil
	})
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// withTransaction commits when fn succeeds and rolls back otherwise
func (s *PostgresStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		// ErrTxClosed means the transaction was already committed
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.logger.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// withTransactionRetry re-runs the transaction on serialization failures
func (s *PostgresStore) withTransactionRetry(ctx context.Context, maxRetries int, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = s.withTransaction(ctx, fn)
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure && attempt < maxRetries {
			s.logger.Warn("Transaction failed due to serialization error, retrying",
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", maxRetries),
				zap.Error(err))
			continue
		}
		return err
	}
	return err
}
