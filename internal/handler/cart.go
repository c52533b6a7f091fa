package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type cartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// GetCart возвращает корзину пользователя.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	items, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, "get cart", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, h.toCart(userID, items))
}

// AddToCart добавляет товар в корзину. Повторное добавление ничего не меняет.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "add to cart", err)
		return
	}
	userID := requestUserID(r, req.UserID)

	items, err := h.service.AddToCart(r.Context(), userID, req.ProductID)
	if err != nil {
		h.writeError(w, r, "add to cart", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, h.toCart(userID, items))
}

// UpdateCartQuantity меняет количество товара в корзине.
func (h *Handler) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "update cart", err)
		return
	}
	userID := requestUserID(r, req.UserID)

	items, err := h.service.UpdateCartQuantity(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		h.writeError(w, r, "update cart", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, h.toCart(userID, items))
}

// RemoveFromCart удаляет товар из корзины.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req cartRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			h.writeError(w, r, "remove from cart", err)
			return
		}
	}
	userID := requestUserID(r, req.UserID)

	items, err := h.service.RemoveFromCart(r.Context(), userID, productID)
	if err != nil {
		h.writeError(w, r, "remove from cart", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, h.toCart(userID, items))
}
