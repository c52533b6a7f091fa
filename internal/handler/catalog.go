package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/service"
)

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Category    *string         `json:"category"`
}

func (req productRequest) input() service.ProductInput {
	in := service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
	}
	if req.Category != nil && *req.Category != "" {
		in.CategoryID = req.Category
	}
	return in
}

// ListProducts возвращает каталог товаров.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, "list products", err)
		return
	}

	resp := make([]productResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, h.toProduct(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProduct возвращает товар по идентификатору.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get product", err, zap.String("productID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toProduct(*p))
}

// CreateProduct добавляет товар в каталог.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "create product", err)
		return
	}

	p, err := h.service.CreateProduct(r.Context(), req.input())
	if err != nil {
		h.writeError(w, r, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toProduct(*p))
}

// UpdateProduct заменяет редактируемые поля товара.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "update product", err)
		return
	}

	p, err := h.service.UpdateProduct(r.Context(), id, req.input())
	if err != nil {
		h.writeError(w, r, "update product", err, zap.String("productID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toProduct(*p))
}

// DeleteProduct удаляет товар из каталога.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		h.writeError(w, r, "delete product", err, zap.String("productID", id))
		return
	}
	writeMessage(w, http.StatusOK, "product deleted")
}

// ListCategories возвращает категории каталога.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, "list categories", err)
		return
	}

	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory создаёт категорию.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "create category", err)
		return
	}

	c, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{ID: c.ID, Name: c.Name})
}

// DeleteCategory удаляет категорию, товары остаются без неё.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.writeError(w, r, "delete category", err, zap.String("categoryID", id))
		return
	}
	writeMessage(w, http.StatusOK, "category deleted")
}
