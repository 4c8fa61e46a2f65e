package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS catalog_nodes (
	id                       TEXT PRIMARY KEY,
	parent_id                TEXT,
	type                     TEXT NOT NULL CHECK (type IN ('book', 'volume', 'saga', 'arc', 'issue')),
	title                    TEXT NOT NULL,
	description              TEXT,
	price                    NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
	position                 INTEGER NOT NULL DEFAULT 0,
	bundle_individual_price  NUMERIC(12, 2),
	bundle_price             NUMERIC(12, 2),
	bundle_discount_percent  BIGINT,
	bundle_updated_at        TIMESTAMPTZ,
	updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS catalog_nodes_parent_idx ON catalog_nodes (parent_id, position, id);
CREATE INDEX IF NOT EXISTS catalog_nodes_type_idx ON catalog_nodes (type);
`

// EnsureSchema creates the catalog table and its indexes when missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure catalog schema: %w", err)
	}
	return nil
}
