package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/validation"
)

// ListWishlist возвращает список желаний пользователя.
func (s *Service) ListWishlist(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	return s.repo.ListWishlist(ctx, userID)
}

// AddToWishlist добавляет товар в список желаний. Повтор возвращает ErrAlreadyExists.
func (s *Service) AddToWishlist(ctx context.Context, userID, productID string) error {
	if err := requireID("userId", userID); err != nil {
		return err
	}
	if err := requireID("productId", productID); err != nil {
		return err
	}
	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return err
	}
	return s.repo.AddWishlistItem(ctx, userID, productID)
}

// RemoveFromWishlist удаляет товар из списка желаний.
func (s *Service) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	if err := requireID("userId", userID); err != nil {
		return err
	}
	if err := requireID("productId", productID); err != nil {
		return err
	}

	removed, err := s.repo.RemoveWishlistItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("wishlist item %s: %w", productID, ErrNotFound)
	}
	return nil
}

// IsWished сообщает, есть ли товар в списке желаний.
func (s *Service) IsWished(ctx context.Context, userID, productID string) (bool, error) {
	if err := requireID("userId", userID); err != nil {
		return false, err
	}
	if err := requireID("productId", productID); err != nil {
		return false, err
	}
	return s.repo.WishlistContains(ctx, userID, productID)
}

// ToggleWishlist переключает наличие товара в списке желаний и возвращает итог.
func (s *Service) ToggleWishlist(ctx context.Context, userID, productID string) (bool, error) {
	if err := requireID("userId", userID); err != nil {
		return false, err
	}
	if err := requireID("productId", productID); err != nil {
		return false, err
	}
	return s.repo.ToggleWishlistItem(ctx, userID, productID)
}

// ReviewInput описывает новый отзыв.
type ReviewInput struct {
	UserID    string
	ProductID string
	Rating    int
	Comment   string
}

// ListReviews возвращает отзывы о товаре.
func (s *Service) ListReviews(ctx context.Context, productID string) ([]model.Review, error) {
	if err := requireID("productId", productID); err != nil {
		return nil, err
	}
	return s.repo.ListReviews(ctx, productID)
}

// CreateReview сохраняет отзыв о существующем товаре.
func (s *Service) CreateReview(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return nil, err
	}
	if err := requireID("productId", in.ProductID); err != nil {
		return nil, err
	}
	if !validation.IsValidRating(in.Rating) {
		return nil, validationErr("rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		return nil, validationErr("comment is required")
	}

	if _, err := s.repo.GetProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}

	rv := &model.Review{
		ID:        s.newID(),
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Rating:    in.Rating,
		Comment:   comment,
	}
	if err := s.repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// DeleteReview удаляет отзыв.
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	if err := requireID("reviewId", id); err != nil {
		return err
	}
	return s.repo.DeleteReview(ctx, id)
}

// WorkoutInput описывает поля видео тренировки.
type WorkoutInput struct {
	Title       string
	Description string
	Category    string
	VideoURL    string
	Thumbnail   string
	UserID      *string
}

// ListWorkouts возвращает видео тренировок.
func (s *Service) ListWorkouts(ctx context.Context) ([]model.Workout, error) {
	return s.repo.ListWorkouts(ctx)
}

// GetWorkout возвращает видео тренировки.
func (s *Service) GetWorkout(ctx context.Context, id string) (*model.Workout, error) {
	if err := requireID("workoutId", id); err != nil {
		return nil, err
	}
	return s.repo.GetWorkout(ctx, id)
}

// CreateWorkout сохраняет видео тренировки по готовой ссылке.
func (s *Service) CreateWorkout(ctx context.Context, in WorkoutInput) (*model.Workout, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, validationErr("title is required")
	}
	if strings.TrimSpace(in.VideoURL) == "" {
		return nil, validationErr("videoUrl is required")
	}

	w := &model.Workout{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Category:    in.Category,
		VideoURL:    strings.TrimSpace(in.VideoURL),
		Thumbnail:   in.Thumbnail,
		UserID:      in.UserID,
	}
	if err := s.repo.CreateWorkout(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateWorkout заменяет непустые поля видео тренировки.
func (s *Service) UpdateWorkout(ctx context.Context, id string, in WorkoutInput) (*model.Workout, error) {
	if err := requireID("workoutId", id); err != nil {
		return nil, err
	}

	w, err := s.repo.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}

	overlay(&w.Title, in.Title)
	overlay(&w.Description, in.Description)
	overlay(&w.Category, in.Category)
	overlay(&w.VideoURL, in.VideoURL)
	overlay(&w.Thumbnail, in.Thumbnail)

	if err := s.repo.UpdateWorkout(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeleteWorkout удаляет видео тренировки.
func (s *Service) DeleteWorkout(ctx context.Context, id string) error {
	if err := requireID("workoutId", id); err != nil {
		return err
	}
	return s.repo.DeleteWorkout(ctx, id)
}
