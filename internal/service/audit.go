package service

import (
	"context"
	"fmt"
	"strings"

	"comicvault/storefront/internal/catalog"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/pricing"
)

type AuditReport struct {
	Nodes    int
	Bundles  int
	Warnings []AuditWarning
}

// AuditWarning is an integrity warning with the breadcrumb of the node,
// book first.
type AuditWarning struct {
	pricing.IntegrityWarning
	Path string
}

// Audit checks the stored catalog against the hierarchy rules and lists every
// stored bundle snapshot that is dearer than its parts.
func (s *Storefront) Audit(ctx context.Context) (*AuditReport, error) {
	forest, err := s.repository.GetForest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := catalog.Validate(forest); err != nil {
		return nil, err
	}

	report := &AuditReport{}
	catalog.Walk(forest, func(n *domain.CatalogNode) bool {
		report.Nodes++
		if n.IsBundle() {
			report.Bundles++
		}
		if w := pricing.CheckBundleInfo(n); w != nil {
			report.Warnings = append(report.Warnings, AuditWarning{IntegrityWarning: *w})
		}
		return true
	})

	for i := range report.Warnings {
		report.Warnings[i].Path = breadcrumb(forest, report.Warnings[i].NodeID)
	}

	return report, nil
}

func breadcrumb(forest []*domain.CatalogNode, id string) string {
	node, ancestors, err := catalog.FindPath(forest, id)
	if err != nil {
		return id
	}

	parts := make([]string, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		parts = append(parts, ancestors[i].Title)
	}
	parts = append(parts, node.Title)
	return strings.Join(parts, " › ")
}
