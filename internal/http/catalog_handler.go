package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	session *session.Session
	timeout time.Duration
}

func NewCatalogHandler(s *session.Session, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		session: s,
		timeout: timeout,
	}
}

type CriteriaDTO struct {
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
	Categories []int64          `json:"categories"`
	Sort       string           `json:"sort,omitempty"`
	MinRating  *float64         `json:"min_rating,omitempty"`
}

type SearchRequestDTO struct {
	Term string `json:"term"`
}

type CatalogResponse struct {
	catalog.View
	Criteria   CriteriaDTO       `json:"criteria"`
	Quantities map[int64]int     `json:"in_cart"`
	Load       catalog.LoadState `json:"load"`
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.response(h.session.Catalog()))
}

// POST /api/v1/catalog/reload
func (h *CatalogHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r.Context(), h.timeout)
	defer cancel()

	if _, err := h.session.LoadCatalog(ctx); err != nil {
		respondJSON(w, http.StatusBadGateway, h.response(h.session.Catalog()))
		return
	}
	respondJSON(w, http.StatusOK, h.response(h.session.Catalog()))
}

// PUT /api/v1/catalog/criteria; absent fields keep their current value.
func (h *CatalogHandler) SetCriteria(w http.ResponseWriter, r *http.Request) {
	var req CriteriaDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c := h.session.Criteria()
	if req.MinPrice != nil {
		c.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		c.MaxPrice = *req.MaxPrice
	}
	if req.Categories != nil {
		c.Categories = req.Categories
	}
	if req.MinRating != nil {
		c.MinRating = *req.MinRating
	}
	if req.Sort != "" {
		key, err := catalog.ParseSortKey(req.Sort)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_sort", err.Error())
			return
		}
		c.Sort = key
	}

	view, err := h.session.SetCriteria(c)
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.response(view))
}

// PUT /api/v1/catalog/search
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	respondJSON(w, http.StatusOK, h.response(h.session.Search(req.Term)))
}

// POST /api/v1/catalog/next
func (h *CatalogHandler) NextPage(w http.ResponseWriter, r *http.Request) {
	view, err := h.session.NextPage(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.response(view))
}

func (h *CatalogHandler) response(v catalog.View) CatalogResponse {
	q := make(map[int64]int, len(v.Items))
	for _, p := range v.Items {
		if n := h.session.Quantity(p.ID); n > 0 {
			q[p.ID] = n
		}
	}
	return CatalogResponse{
		View:       v,
		Criteria:   toCriteriaDTO(v.Criteria),
		Quantities: q,
		Load:       h.session.CatalogState(),
	}
}

func toCriteriaDTO(c catalog.Criteria) CriteriaDTO {
	minPrice, maxPrice, rating := c.MinPrice, c.MaxPrice, c.MinRating
	cats := c.Categories
	if cats == nil {
		cats = []int64{}
	}
	return CriteriaDTO{
		MinPrice:   &minPrice,
		MaxPrice:   &maxPrice,
		Categories: cats,
		Sort:       string(c.Sort),
		MinRating:  &rating,
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
