package task

import "comicvault/storefront/internal/domain"

type CatalogPageTask struct {
	PageNumber int                  `json:"page_number"` // Upstream page number
	NodeType   domain.NodeType      `json:"node_type"`   // book, volume, saga, arc, issue
	Nodes      []domain.CatalogNode `json:"nodes"`       // Flat nodes to upsert
}

func (t *CatalogPageTask) TaskType() string {
	return TypeCatalogPage
}

func (t *CatalogPageTask) TaskValue() ([]byte, error) {
	return DefaultTaskValue(t)
}
