package api

import (
	"errors"
	"net/http"

	"comicvault/storefront/internal/catalog"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/pricing"
	"comicvault/storefront/internal/repository"
	"comicvault/storefront/internal/service"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

type nodeView struct {
	ID           string             `json:"id"`
	ParentID     string             `json:"parent_id,omitempty"`
	Type         domain.NodeType    `json:"type"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	Price        string             `json:"price"`
	DisplayPrice string             `json:"display_price"`
	ChildCount   int                `json:"child_count"`
	BundleInfo   *domain.BundleInfo `json:"bundle_info,omitempty"`
}

type catalogResponse struct {
	Level string     `json:"level"`
	Sort  string     `json:"sort"`
	Items []nodeView `json:"items"`
}

type optionView struct {
	pricing.PurchaseOption
	DisplayPrice         string `json:"display_price"`
	DisplayOriginalPrice string `json:"display_original_price,omitempty"`
}

type purchaseOptionsResponse struct {
	ItemID  string       `json:"item_id"`
	Options []optionView `json:"options"`
}

type recommendationsResponse struct {
	ItemID          string                         `json:"item_id"`
	Recommendations []pricing.BundleRecommendation `json:"recommendations"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Browse handles GET /catalog?level=&sort=
func (h *Handler) Browse(w http.ResponseWriter, r *http.Request) {
	filter, err := catalog.ParseLevelFilter(r.URL.Query().Get("level"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_LEVEL", err.Error())
		return
	}

	key, err := catalog.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_SORT", err.Error())
		return
	}

	nodes, err := h.storefront.Browse(r.Context(), filter, key)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	items := make([]nodeView, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, nodeView{
			ID:           n.ID,
			ParentID:     n.ParentID,
			Type:         n.Type,
			Title:        n.Title,
			Description:  n.Description,
			Price:        n.Price.StringFixed(2),
			DisplayPrice: h.formatter.FormatPrice(n.Price),
			ChildCount:   len(n.Children),
			BundleInfo:   n.BundleInfo,
		})
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Level: string(filter),
		Sort:  string(key),
		Items: items,
	})
}

// PurchaseOptions handles GET /catalog/{id}/purchase-options
func (h *Handler) PurchaseOptions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	options, err := h.storefront.PurchaseOptions(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	views := make([]optionView, 0, len(options))
	for _, o := range options {
		v := optionView{
			PurchaseOption: o,
			DisplayPrice:   h.formatter.FormatPrice(o.Price),
		}
		if o.OriginalPrice != nil {
			v.DisplayOriginalPrice = h.formatter.FormatPrice(*o.OriginalPrice)
		}
		views = append(views, v)
	}

	writeJSON(w, http.StatusOK, purchaseOptionsResponse{ItemID: id, Options: views})
}

// Recommendations handles GET /catalog/{id}/recommendations
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	recs, err := h.storefront.Recommendations(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendationsResponse{ItemID: id, Recommendations: recs})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "item not found")
	case errors.Is(err, service.ErrUnpriceable):
		respondError(w, http.StatusUnprocessableEntity, "UNPRICEABLE", service.ErrUnpriceable.Error())
	default:
		log.Errorf("❌ Request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
