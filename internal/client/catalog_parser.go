package client

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"comicvault/storefront/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Content-Range as sent by the backend: "0-199/1234", "*/0" or "0-199/*".
var contentRangeRegex = regexp.MustCompile(`^(?:\d+-\d+|\*)/(\d+|\*)$`)

type upstreamNode struct {
	ID              string              `json:"id"`
	ParentID        *string             `json:"parent_id"`
	Type            string              `json:"type"`
	Title           string              `json:"title"`
	DescriptionHTML string              `json:"description_html"`
	Price           decimal.NullDecimal `json:"price"`
	Position        int                 `json:"position"`
}

type catalogParser struct {
	pageSize int
}

func newCatalogParser(pageSize int) *catalogParser {
	return &catalogParser{
		pageSize: pageSize,
	}
}

func (p *catalogParser) ParseCatalogPage(body []byte, contentRange string, nodeType domain.NodeType, pageNumber int) (*domain.CatalogPage, error) {
	var rows []upstreamNode
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode catalog page: %w", err)
	}

	page := &domain.CatalogPage{
		PageNumber:   pageNumber,
		ItemsPerPage: p.pageSize,
		NodeType:     nodeType,
		Nodes:        make([]domain.CatalogNode, 0, len(rows)),
	}

	total, err := parseContentRange(contentRange)
	if err != nil {
		log.Warnf("Failed to read total from Content-Range %q: %v", contentRange, err)
		total = (pageNumber-1)*p.pageSize + len(rows)
	}
	page.TotalItems = total
	page.TotalPages = (total + p.pageSize - 1) / p.pageSize

	for _, row := range rows {
		node, err := p.toNode(row, nodeType)
		if err != nil {
			log.Warnf("⚠️ Skipping upstream row %q: %v", row.ID, err)
			continue
		}
		page.Nodes = append(page.Nodes, node)
	}

	log.Debugf("Parsed %s page %d with %d nodes", nodeType, page.PageNumber, len(page.Nodes))
	return page, nil
}

func (p *catalogParser) toNode(row upstreamNode, nodeType domain.NodeType) (domain.CatalogNode, error) {
	if row.ID == "" {
		return domain.CatalogNode{}, fmt.Errorf("missing id")
	}
	if domain.NodeType(row.Type) != nodeType {
		return domain.CatalogNode{}, fmt.Errorf("type %q does not match requested %s", row.Type, nodeType)
	}
	// Absent and null prices both decode as invalid
	if !row.Price.Valid {
		return domain.CatalogNode{}, fmt.Errorf("missing price")
	}
	price := row.Price.Decimal
	if price.IsNegative() {
		return domain.CatalogNode{}, fmt.Errorf("negative price %s", price)
	}
	if !price.Equal(price.Round(2)) {
		return domain.CatalogNode{}, fmt.Errorf("price %s has sub-cent precision", price)
	}

	parentID := ""
	if row.ParentID != nil {
		parentID = *row.ParentID
	}
	if nodeType != domain.NodeTypeBook && parentID == "" {
		return domain.CatalogNode{}, fmt.Errorf("%s without parent", nodeType)
	}

	return domain.CatalogNode{
		ID:          row.ID,
		ParentID:    parentID,
		Type:        nodeType,
		Title:       strings.TrimSpace(row.Title),
		Description: ParseDescription(row.DescriptionHTML),
		Price:       price,
		Position:    row.Position,
	}, nil
}

// ParseDescription turns authored rich text into a single line of plain text.
func ParseDescription(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Debugf("Failed to parse description HTML, keeping raw text: %v", err)
		return strings.Join(strings.Fields(html), " ")
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6").AppendHtml(" ")

	return strings.Join(strings.Fields(doc.Text()), " ")
}

func parseContentRange(header string) (int, error) {
	matches := contentRangeRegex.FindStringSubmatch(strings.TrimSpace(header))
	if len(matches) < 2 {
		return 0, fmt.Errorf("malformed Content-Range")
	}
	if matches[1] == "*" {
		return 0, fmt.Errorf("total count not provided")
	}
	return strconv.Atoi(matches[1])
}
