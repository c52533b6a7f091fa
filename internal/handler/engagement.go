package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/middleware"
	"github.com/mmeshcher/gymstore/internal/service"
)

type wishlistRequest struct {
	ProductID string `json:"productId"`
}

type wishedResponse struct {
	Wished bool `json:"wished"`
}

// ListWishlist возвращает список желаний текущего пользователя.
func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	items, err := h.service.ListWishlist(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, "list wishlist", err, zap.String("userID", userID))
		return
	}

	resp := make([]wishlistItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, wishlistItemResponse{
			ProductID: it.ProductID,
			Product:   h.toProductSummary(it.Product),
			AddedAt:   it.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddToWishlist добавляет товар в список желаний.
func (h *Handler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req wishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "add to wishlist", err)
		return
	}

	if err := h.service.AddToWishlist(r.Context(), userID, req.ProductID); err != nil {
		h.writeError(w, r, "add to wishlist", err, zap.String("userID", userID))
		return
	}
	writeMessage(w, http.StatusCreated, "added to wishlist")
}

// RemoveFromWishlist удаляет товар из списка желаний.
func (h *Handler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	if err := h.service.RemoveFromWishlist(r.Context(), userID, productID); err != nil {
		h.writeError(w, r, "remove from wishlist", err, zap.String("userID", userID))
		return
	}
	writeMessage(w, http.StatusOK, "removed from wishlist")
}

// CheckWishlist сообщает, есть ли товар в списке желаний.
func (h *Handler) CheckWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	wished, err := h.service.IsWished(r.Context(), userID, productID)
	if err != nil {
		h.writeError(w, r, "check wishlist", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, wishedResponse{Wished: wished})
}

// ToggleWishlist добавляет товар в список желаний или убирает его оттуда.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req wishlistRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "toggle wishlist", err)
		return
	}

	wished, err := h.service.ToggleWishlist(r.Context(), userID, req.ProductID)
	if err != nil {
		h.writeError(w, r, "toggle wishlist", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, wishedResponse{Wished: wished})
}

// ListReviews возвращает отзывы о товаре.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	reviews, err := h.service.ListReviews(r.Context(), productID)
	if err != nil {
		h.writeError(w, r, "list reviews", err, zap.String("productID", productID))
		return
	}

	resp := make([]reviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		resp = append(resp, toReview(rv))
	}
	writeJSON(w, http.StatusOK, resp)
}

type reviewRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// CreateReview публикует отзыв о товаре.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "create review", err)
		return
	}

	rv, err := h.service.CreateReview(r.Context(), service.ReviewInput{
		UserID:    requestUserID(r, req.UserID),
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.writeError(w, r, "create review", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReview(*rv))
}

// DeleteReview удаляет отзыв.
func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteReview(r.Context(), id); err != nil {
		h.writeError(w, r, "delete review", err, zap.String("reviewID", id))
		return
	}
	writeMessage(w, http.StatusOK, "review deleted")
}

type workoutRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	VideoURL    string  `json:"videoUrl"`
	Thumbnail   string  `json:"thumbnail"`
	UserID      *string `json:"userId"`
}

func (req workoutRequest) input() service.WorkoutInput {
	return service.WorkoutInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		VideoURL:    req.VideoURL,
		Thumbnail:   req.Thumbnail,
		UserID:      req.UserID,
	}
}

// ListWorkouts возвращает видео тренировок.
func (h *Handler) ListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.service.ListWorkouts(r.Context())
	if err != nil {
		h.writeError(w, r, "list workouts", err)
		return
	}

	resp := make([]workoutResponse, 0, len(workouts))
	for _, wk := range workouts {
		resp = append(resp, toWorkout(wk))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetWorkout возвращает видео тренировки.
func (h *Handler) GetWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	wk, err := h.service.GetWorkout(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get workout", err, zap.String("workoutID", id))
		return
	}
	writeJSON(w, http.StatusOK, toWorkout(*wk))
}

// CreateWorkout добавляет видео тренировки.
func (h *Handler) CreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "create workout", err)
		return
	}

	wk, err := h.service.CreateWorkout(r.Context(), req.input())
	if err != nil {
		h.writeError(w, r, "create workout", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkout(*wk))
}

// UpdateWorkout обновляет заполненные поля тренировки.
func (h *Handler) UpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req workoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "update workout", err)
		return
	}

	wk, err := h.service.UpdateWorkout(r.Context(), id, req.input())
	if err != nil {
		h.writeError(w, r, "update workout", err, zap.String("workoutID", id))
		return
	}
	writeJSON(w, http.StatusOK, toWorkout(*wk))
}

// DeleteWorkout удаляет видео тренировки.
func (h *Handler) DeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteWorkout(r.Context(), id); err != nil {
		h.writeError(w, r, "delete workout", err, zap.String("workoutID", id))
		return
	}
	writeMessage(w, http.StatusOK, "workout deleted")
}

type paymentIntentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// CreatePaymentIntent создаёт платёжное намерение у платёжного провайдера.
func (h *Handler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "create payment intent", err)
		return
	}

	secret, err := h.service.CreatePaymentIntent(r.Context(), req.Amount, req.Currency)
	if err != nil {
		h.writeError(w, r, "create payment intent", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}
