package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"fsanano/shop-api/internal/apperr"
	"fsanano/shop-api/internal/model"
	"fsanano/shop-api/internal/service"

	"github.com/go-chi/chi/v5"
)

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Image       *string `json:"image"`
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.svc.Products.List(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// parseProductQuery leaves absent filters nil so they are not applied.
func parseProductQuery(values url.Values) (model.ProductQuery, error) {
	var q model.ProductQuery

	if category := values.Get("category"); category != "" {
		q.Filter.Category = &category
	}

	var err error
	if q.Filter.MinPrice, err = optionalFloat(values, "minPrice"); err != nil {
		return q, err
	}
	if q.Filter.MaxPrice, err = optionalFloat(values, "maxPrice"); err != nil {
		return q, err
	}

	q.SortBy = values.Get("sortBy")
	switch values.Get("order") {
	case "", "desc":
	case "asc":
		q.Ascending = true
	default:
		return q, apperr.Validation("order must be asc or desc")
	}

	if q.Page, err = optionalInt(values, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = optionalInt(values, "limit"); err != nil {
		return q, err
	}
	return q, nil
}

func optionalFloat(values url.Values, key string) (*float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validationf("%s must be a number", key)
	}
	return &v, nil
}

func optionalInt(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, apperr.Validationf("%s must be a positive integer", key)
	}
	return v, nil
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products.Search(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) TopProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products.TopRated(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.svc.Products.Create(r.Context(), service.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Image:       req.Image,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var upd model.ProductUpdate
	if err := decodeJSON(r, &upd); err != nil {
		h.writeError(w, r, err)
		return
	}

	p, err := h.svc.Products.Update(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Product removed"})
}
