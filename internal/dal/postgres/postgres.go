package postgres

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client represents a Postgres client.
type Client struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying connection pool.
func (p *Client) Pool() *pgxpool.Pool {
	return p.pool
}

// Close closes the database connection for graceful shutdown.
func (p *Client) Close() {
	p.pool.Close()
}

// Schema migration tooling is out of scope; the document table is
// bootstrapped with embedded DDL on startup.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT   NOT NULL,
	id         TEXT   NOT NULL,
	seq        BIGINT GENERATED ALWAYS AS IDENTITY,
	doc        JSONB  NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS documents_collection_seq_idx ON documents (collection, seq);
`

// MustNewClient creates a new Postgres client and bootstraps the schema.
func MustNewClient() *Client {
	connStr := fmt.Sprintf(
		"host=%s port=5432 user=%s password=%s dbname=%s sslmode=disable",
		os.Getenv("POS_PG_HOST"),
		os.Getenv("POS_PG_USER"),
		os.Getenv("POS_PG_PASSWORD"),
		os.Getenv("POS_PG_DB"),
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		panic(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		panic(err)
	}

	if _, err := pool.Exec(context.Background(), schema); err != nil {
		panic(err)
	}

	return &Client{
		pool: pool,
	}
}
