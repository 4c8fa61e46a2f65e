package domain

type CatalogPage struct {
	PageNumber   int           `json:"page_number"`    // Current page number (1-based)
	TotalPages   int           `json:"total_pages"`    // Total number of pages
	TotalItems   int           `json:"total_items"`    // Total nodes of this type upstream
	ItemsPerPage int           `json:"items_per_page"` // Page size requested
	NodeType     NodeType      `json:"node_type"`      // book, volume, saga, arc, issue
	Nodes        []CatalogNode `json:"nodes"`          // Flat nodes on this page, linked by ParentID
}

type CatalogResults struct {
	NodeType   NodeType       `json:"node_type"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
	Pages      []*CatalogPage `json:"pages"`
}
