package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/gymstore/internal/model"
)

// AddWishlistItem добавляет товар в список желаний.
func (r *PostgresRepository) AddWishlistItem(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wishlists (user_id, product_id) VALUES ($1, $2)`,
		userID, productID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("wishlist item %s: %w", productID, ErrAlreadyExists)
		}
		return wrapErr("insert wishlist item", err)
	}
	return nil
}

// RemoveWishlistItem удаляет товар из списка желаний и сообщает, был ли он там.
func (r *PostgresRepository) RemoveWishlistItem(ctx context.Context, userID, productID string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return false, wrapErr("delete wishlist item", err)
	}
	return tag.RowsAffected() > 0, nil
}

// WishlistContains сообщает, есть ли товар в списке желаний.
func (r *PostgresRepository) WishlistContains(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlists WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		return false, wrapErr("check wishlist", err)
	}
	return exists, nil
}

// ToggleWishlistItem удаляет товар из списка желаний, если он там есть, иначе добавляет.
// Возвращает итоговое наличие товара в списке.
func (r *PostgresRepository) ToggleWishlistItem(ctx context.Context, userID, productID string) (bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, wrapErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return false, wrapErr("delete wishlist item", err)
	}

	wished := false
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO wishlists (user_id, product_id) VALUES ($1, $2)
			 ON CONFLICT (user_id, product_id) DO NOTHING`,
			userID, productID,
		)
		if err != nil {
			return false, wrapErr("insert wishlist item", err)
		}
		wished = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, wrapErr("commit tx", err)
	}
	return wished, nil
}

// ListWishlist возвращает список желаний пользователя, начиная с последних добавленных.
func (r *PostgresRepository) ListWishlist(ctx context.Context, userID string) ([]model.WishlistItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT w.user_id, w.product_id, w.created_at,
		        p.id, p.name, p.price, p.stock, p.images
		 FROM wishlists w
		 LEFT JOIN products p ON p.id = w.product_id
		 WHERE w.user_id = $1
		 ORDER BY w.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, wrapErr("select wishlist", err)
	}
	defer rows.Close()

	items := []model.WishlistItem{}
	for rows.Next() {
		var (
			item      model.WishlistItem
			productID *string
			name      *string
			price     decimal.NullDecimal
			stock     *int
			images    []string
		)
		if err := rows.Scan(&item.UserID, &item.ProductID, &item.CreatedAt, &productID, &name, &price, &stock, &images); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		if productID != nil {
			item.Product = &model.Product{
				ID:     *productID,
				Name:   deref(name),
				Price:  price.Decimal,
				Images: images,
			}
			if stock != nil {
				item.Product.Stock = *stock
			}
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}
	return items, nil
}

// ListReviews возвращает отзывы о товаре с именем автора, начиная с новых.
func (r *PostgresRepository) ListReviews(ctx context.Context, productID string) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT rv.id, rv.user_id, rv.product_id, rv.rating, rv.comment, rv.created_at,
		        COALESCE(u.fname, '')
		 FROM reviews rv
		 LEFT JOIN users u ON u.id = rv.user_id
		 WHERE rv.product_id = $1
		 ORDER BY rv.created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, wrapErr("select reviews", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UserFirstName); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}
	return reviews, nil
}

// CreateReview сохраняет отзыв и возвращает время его создания.
func (r *PostgresRepository) CreateReview(ctx context.Context, rv *model.Review) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (id, user_id, product_id, rating, comment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		rv.ID, rv.UserID, rv.ProductID, rv.Rating, rv.Comment,
	).Scan(&rv.CreatedAt)
	if err != nil {
		return wrapErr("insert review", err)
	}
	return nil
}

// DeleteReview удаляет отзыв.
func (r *PostgresRepository) DeleteReview(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", id, ErrNotFound)
	}
	return nil
}

const workoutColumns = `id, title, description, category, video_url, thumbnail, user_id, created_at, updated_at`

func scanWorkout(row pgx.Row) (model.Workout, error) {
	var w model.Workout
	err := row.Scan(&w.ID, &w.Title, &w.Description, &w.Category, &w.VideoURL, &w.Thumbnail, &w.UserID, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// ListWorkouts возвращает видео тренировок, начиная с новых.
func (r *PostgresRepository) ListWorkouts(ctx context.Context) ([]model.Workout, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workoutColumns+` FROM workouts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrapErr("select workouts", err)
	}
	defer rows.Close()

	workouts := []model.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}
	return workouts, nil
}

// GetWorkout возвращает видео тренировки по идентификатору.
func (r *PostgresRepository) GetWorkout(ctx context.Context, id string) (*model.Workout, error) {
	w, err := scanWorkout(r.pool.QueryRow(ctx, `SELECT `+workoutColumns+` FROM workouts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("workout %s: %w", id, ErrNotFound)
		}
		return nil, wrapErr("get workout", err)
	}
	return &w, nil
}

// CreateWorkout сохраняет видео тренировки.
func (r *PostgresRepository) CreateWorkout(ctx context.Context, w *model.Workout) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO workouts (id, title, description, category, video_url, thumbnail, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		w.ID, w.Title, w.Description, w.Category, w.VideoURL, w.Thumbnail, w.UserID,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return wrapErr("insert workout", err)
	}
	return nil
}

// UpdateWorkout заменяет поля видео тренировки.
func (r *PostgresRepository) UpdateWorkout(ctx context.Context, w *model.Workout) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE workouts
		 SET title = $2, description = $3, category = $4, video_url = $5, thumbnail = $6,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		w.ID, w.Title, w.Description, w.Category, w.VideoURL, w.Thumbnail,
	).Scan(&w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("workout %s: %w", w.ID, ErrNotFound)
		}
		return wrapErr("update workout", err)
	}
	return nil
}

// DeleteWorkout удаляет видео тренировки.
func (r *PostgresRepository) DeleteWorkout(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return wrapErr("delete workout", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	return nil
}
