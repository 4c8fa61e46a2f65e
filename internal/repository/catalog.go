package repository

import (
	"context"
	"errors"
	"fmt"

	"comicvault/storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("catalog node not found")

type CatalogRepository interface {
	GetNode(ctx context.Context, id string) (*domain.CatalogNode, error)
	GetNodeWithChildren(ctx context.Context, id string) (*domain.CatalogNode, error)
	// GetAncestorChain returns the ancestors of id, immediate parent first,
	// each with its children loaded.
	GetAncestorChain(ctx context.Context, id string) ([]*domain.CatalogNode, error)
	GetForest(ctx context.Context) ([]*domain.CatalogNode, error)
	UpsertNodes(ctx context.Context, nodes []domain.CatalogNode) error
	SaveBundleInfo(ctx context.Context, id string, info *domain.BundleInfo) error
}

type catalogRepository struct {
	db *pgxpool.Pool
}

func NewCatalogRepository(db *pgxpool.Pool) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

const nodeColumns = `n.id, n.parent_id, n.type, n.title, n.description, n.price::text, n.position,
	n.bundle_individual_price::text, n.bundle_price::text, n.bundle_discount_percent`

func (r *catalogRepository) GetNode(ctx context.Context, id string) (*domain.CatalogNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM catalog_nodes n WHERE n.id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query node %s: %w", id, err)
	}

	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read node %s: %w", id, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nodes[0], nil
}

func (r *catalogRepository) GetNodeWithChildren(ctx context.Context, id string) (*domain.CatalogNode, error) {
	node, err := r.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.loadChildren(ctx, []*domain.CatalogNode{node}); err != nil {
		return nil, err
	}

	return node, nil
}

func (r *catalogRepository) GetAncestorChain(ctx context.Context, id string) ([]*domain.CatalogNode, error) {
	// depth guard keeps a corrupted parent cycle from recursing forever
	query := `
	WITH RECURSIVE chain AS (
		SELECT p.id, p.parent_id, 1 AS depth
		FROM catalog_nodes c
		JOIN catalog_nodes p ON p.id = c.parent_id
		WHERE c.id = $1
		UNION ALL
		SELECT p.id, p.parent_id, chain.depth + 1
		FROM chain
		JOIN catalog_nodes p ON p.id = chain.parent_id
		WHERE chain.depth < $2
	)
	SELECT ` + nodeColumns + `
	FROM chain
	JOIN catalog_nodes n ON n.id = chain.id
	ORDER BY chain.depth`

	rows, err := r.db.Query(ctx, query, id, len(domain.NodeTypes))
	if err != nil {
		return nil, fmt.Errorf("failed to query ancestors of %s: %w", id, err)
	}

	ancestors, err := scanNodes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read ancestors of %s: %w", id, err)
	}

	if err := r.loadChildren(ctx, ancestors); err != nil {
		return nil, err
	}

	return ancestors, nil
}

// GetForest loads the whole catalog and links it into trees.
func (r *catalogRepository) GetForest(ctx context.Context) ([]*domain.CatalogNode, error) {
	query := `SELECT ` + nodeColumns + ` FROM catalog_nodes n ORDER BY n.position, n.id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}

	nodes, err := scanNodes(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return assembleForest(nodes), nil
}

func (r *catalogRepository) UpsertNodes(ctx context.Context, nodes []domain.CatalogNode) error {
	if len(nodes) == 0 {
		return nil
	}

	query := `
	INSERT INTO catalog_nodes (id, parent_id, type, title, description, price, position, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, now())
	ON CONFLICT (id)
	DO UPDATE SET parent_id = $2, type = $3, title = $4, description = $5, price = $6::numeric,
		position = $7, updated_at = now()`

	batch := &pgx.Batch{}
	for _, n := range nodes {
		batch.Queue(query, n.ID, nullableString(n.ParentID), n.Type.String(), n.Title, n.Description, n.Price.String(), n.Position)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()

	for _, n := range nodes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert node %s: %w", n.ID, err)
		}
	}

	return nil
}

func (r *catalogRepository) SaveBundleInfo(ctx context.Context, id string, info *domain.BundleInfo) error {
	query := `
	UPDATE catalog_nodes
	SET bundle_individual_price = $2::numeric, bundle_price = $3::numeric,
		bundle_discount_percent = $4, bundle_updated_at = now()
	WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, info.IndividualPrice.String(), info.BundlePrice.String(), info.DiscountPercent)
	if err != nil {
		return fmt.Errorf("failed to save bundle info for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return nil
}

// loadChildren replaces the child list of every parent with its stored
// children, leaving an empty slice for parents that have none.
func (r *catalogRepository) loadChildren(ctx context.Context, parents []*domain.CatalogNode) error {
	if len(parents) == 0 {
		return nil
	}

	ids := make([]string, 0, len(parents))
	for _, p := range parents {
		ids = append(ids, p.ID)
	}

	query := `SELECT ` + nodeColumns + ` FROM catalog_nodes n WHERE n.parent_id = ANY($1) ORDER BY n.position, n.id`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query children: %w", err)
	}

	children, err := scanNodes(rows)
	if err != nil {
		return fmt.Errorf("failed to read children: %w", err)
	}

	attachChildren(parents, children)
	return nil
}
