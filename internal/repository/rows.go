package repository

import (
	"fmt"

	"comicvault/storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// nodeRow mirrors nodeColumns. Money arrives as numeric::text so no
// precision is lost on the way into decimal.Decimal.
type nodeRow struct {
	ID                    string
	ParentID              *string
	Type                  string
	Title                 string
	Description           *string
	Price                 string
	Position              int
	BundleIndividualPrice *string
	BundlePrice           *string
	BundleDiscountPercent *int64
}

func scanNodes(rows pgx.Rows) ([]*domain.CatalogNode, error) {
	defer rows.Close()

	nodes := make([]*domain.CatalogNode, 0)
	for rows.Next() {
		var row nodeRow
		err := rows.Scan(
			&row.ID,
			&row.ParentID,
			&row.Type,
			&row.Title,
			&row.Description,
			&row.Price,
			&row.Position,
			&row.BundleIndividualPrice,
			&row.BundlePrice,
			&row.BundleDiscountPercent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}

		node, err := row.toNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nodes, nil
}

func (row nodeRow) toNode() (*domain.CatalogNode, error) {
	nodeType, err := domain.ParseNodeType(row.Type)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", row.ID, err)
	}

	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return nil, fmt.Errorf("node %s has unreadable price %q: %w", row.ID, row.Price, err)
	}

	node := &domain.CatalogNode{
		ID:       row.ID,
		Type:     nodeType,
		Title:    row.Title,
		Price:    price,
		Position: row.Position,
	}
	if row.ParentID != nil {
		node.ParentID = *row.ParentID
	}
	if row.Description != nil {
		node.Description = *row.Description
	}

	// A half-written snapshot is treated as absent
	if row.BundleIndividualPrice != nil && row.BundlePrice != nil && row.BundleDiscountPercent != nil {
		individual, err := decimal.NewFromString(*row.BundleIndividualPrice)
		if err != nil {
			return nil, fmt.Errorf("node %s has unreadable bundle individual price: %w", row.ID, err)
		}
		bundle, err := decimal.NewFromString(*row.BundlePrice)
		if err != nil {
			return nil, fmt.Errorf("node %s has unreadable bundle price: %w", row.ID, err)
		}
		node.BundleInfo = &domain.BundleInfo{
			IndividualPrice: individual,
			BundlePrice:     bundle,
			DiscountPercent: *row.BundleDiscountPercent,
		}
	}

	return node, nil
}

// attachChildren appends each child to its parent in the given order. Every
// parent ends up with a non-nil child list.
func attachChildren(parents, children []*domain.CatalogNode) {
	byID := make(map[string]*domain.CatalogNode, len(parents))
	for _, p := range parents {
		p.Children = make([]*domain.CatalogNode, 0)
		byID[p.ID] = p
	}

	for _, c := range children {
		if p, ok := byID[c.ParentID]; ok {
			p.Children = append(p.Children, c)
		}
	}
}

// assembleForest links a flat, ordered node list into trees and returns the
// books. Every node gets a non-nil child list. Nodes whose parent is missing
// are dropped with a warning.
func assembleForest(nodes []*domain.CatalogNode) []*domain.CatalogNode {
	byID := make(map[string]*domain.CatalogNode, len(nodes))
	for _, n := range nodes {
		n.Children = make([]*domain.CatalogNode, 0)
		byID[n.ID] = n
	}

	roots := make([]*domain.CatalogNode, 0)
	for _, n := range nodes {
		if n.ParentID == "" {
			roots = append(roots, n)
			continue
		}

		parent, ok := byID[n.ParentID]
		if !ok {
			log.Warnf("⚠️ Dropping %s %s: parent %s is missing", n.Type, n.ID, n.ParentID)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	return roots
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
