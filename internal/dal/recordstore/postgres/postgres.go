// Package postgresstore implements the record store on a single jsonb
// document table, one row per record keyed by (collection, id).
package postgresstore

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/aquavenda/pos/internal/dal/postgres"
	"github.com/aquavenda/pos/internal/dal/recordstore"
)

// Store is the Postgres-backed record store.
type Store struct {
	client *postgres.Client
}

// NewStore wraps a Postgres client as a record store.
func NewStore(client *postgres.Client) *Store {
	return &Store{client: client}
}

// Collection returns the named collection. Collections have no rows
// until first append, so there is nothing to create eagerly.
func (s *Store) Collection(name string) recordstore.Collection {
	return &collection{client: s.client, name: name}
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	s.client.Close()

	return nil
}

type collection struct {
	client *postgres.Client
	name   string
}

func (c *collection) Append(ctx context.Context, id string, doc []byte) error {
	query, args, err := sq.Insert("documents").
		Columns("collection", "id", "doc").
		Values(c.name, id, doc).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := c.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to append to %s: %w", c.name, err)
	}

	return nil
}

func (c *collection) GetByID(ctx context.Context, id string) ([]byte, error) {
	query, args, err := sq.Select("doc").
		From("documents").
		Where(sq.Eq{"collection": c.name, "id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var doc []byte
	if err := c.client.Pool().QueryRow(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, recordstore.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get %s/%s: %w", c.name, id, err)
	}

	return doc, nil
}

func (c *collection) Scan(ctx context.Context, fn func(doc []byte) error) error {
	query, args, err := sq.Select("doc").
		From("documents").
		Where(sq.Eq{"collection": c.name}).
		OrderBy("seq ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build scan query: %w", err)
	}

	rows, err := c.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", c.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("failed to scan document: %w", err)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}

	return nil
}

func (c *collection) UpdateByID(ctx context.Context, id string, update func(doc []byte) ([]byte, error)) ([]byte, error) {
	doc, err := c.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	doc, err = update(doc)
	if err != nil {
		return nil, err
	}

	query, args, err := sq.Update("documents").
		Set("doc", doc).
		Where(sq.Eq{"collection": c.name, "id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := c.client.Pool().Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update %s/%s: %w", c.name, id, err)
	}

	return doc, nil
}
