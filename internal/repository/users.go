package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/gymstore/internal/model"
)

const userColumns = `id, fname, lname, email, mobile, state, district, city, local_area,
	profile_image, role, is_disabled, delivery_boy_approved, delivery_boy_approved_by,
	delivery_boy_approved_at, vehicle_type, vehicle_number, aadhar_number, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u       model.User
		role    string
		vehicle *string
	)
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Mobile, &u.State, &u.District,
		&u.City, &u.LocalArea, &u.ProfileImage, &role, &u.IsDisabled,
		&u.DeliveryBoyApproved, &u.DeliveryBoyApprovedBy, &u.DeliveryBoyApprovedAt,
		&vehicle, &u.VehicleNumber, &u.AadharNumber, &u.CreatedAt,
	)
	if err != nil {
		return u, err
	}

	u.Role = model.Role(role)
	if vehicle != nil {
		v := model.VehicleType(*vehicle)
		u.VehicleType = &v
	}
	return u, nil
}

func (r *PostgresRepository) selectUsers(ctx context.Context, where string, args ...any) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users `+where+` ORDER BY created_at DESC, id DESC`, args...)
	if err != nil {
		return nil, wrapErr("select users", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}

	return users, nil
}

func vehicleParam(v *model.VehicleType) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

// CreateUser сохраняет нового пользователя.
func (r *PostgresRepository) CreateUser(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, fname, lname, email, mobile, state, district, city, local_area,
		                    profile_image, role, vehicle_type, vehicle_number, aadhar_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.Mobile, u.State, u.District, u.City,
		u.LocalArea, u.ProfileImage, string(u.Role), vehicleParam(u.VehicleType),
		u.VehicleNumber, u.AadharNumber,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, u.Email)
		}
		return wrapErr("create user", err)
	}
	return nil
}

// GetUser возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, wrapErr("get user", err)
	}
	return &u, nil
}

// ListUsers возвращает всех пользователей.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	return r.selectUsers(ctx, "")
}

// ListDeliveryBoys возвращает курьеров с указанным признаком одобрения.
// Ожидающими одобрения считаются только незаблокированные курьеры.
func (r *PostgresRepository) ListDeliveryBoys(ctx context.Context, approved bool) ([]model.User, error) {
	if approved {
		return r.selectUsers(ctx, `WHERE role = $1 AND delivery_boy_approved`, string(model.RoleDeliveryBoy))
	}
	return r.selectUsers(ctx,
		`WHERE role = $1 AND NOT delivery_boy_approved AND NOT is_disabled`,
		string(model.RoleDeliveryBoy),
	)
}

// UpdateUserProfile заменяет поля профиля пользователя и возвращает результат.
func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, u model.User) (*model.User, error) {
	res, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET fname = $2, lname = $3, mobile = $4, state = $5, district = $6, city = $7,
		     local_area = $8, profile_image = $9, vehicle_type = $10, vehicle_number = $11
		 WHERE id = $1
		 RETURNING `+userColumns,
		u.ID, u.FirstName, u.LastName, u.Mobile, u.State, u.District, u.City,
		u.LocalArea, u.ProfileImage, vehicleParam(u.VehicleType), u.VehicleNumber,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", u.ID, ErrNotFound)
		}
		return nil, wrapErr("update user", err)
	}
	return &res, nil
}

// ToggleUserDisabled инвертирует признак блокировки и возвращает новое значение.
func (r *PostgresRepository) ToggleUserDisabled(ctx context.Context, id string) (bool, error) {
	var disabled bool
	err := r.pool.QueryRow(ctx,
		`UPDATE users SET is_disabled = NOT is_disabled WHERE id = $1 RETURNING is_disabled`,
		id,
	).Scan(&disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return false, wrapErr("toggle user", err)
	}
	return disabled, nil
}

// ApproveDeliveryBoy одобряет курьера и фиксирует одобрившего администратора.
func (r *PostgresRepository) ApproveDeliveryBoy(ctx context.Context, id, adminID string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		 SET delivery_boy_approved = TRUE, delivery_boy_approved_by = $2,
		     delivery_boy_approved_at = now()
		 WHERE id = $1 AND role = $3
		 RETURNING `+userColumns,
		id, adminID, string(model.RoleDeliveryBoy),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("delivery boy %s: %w", id, ErrNotFound)
		}
		return nil, wrapErr("approve delivery boy", err)
	}
	return &u, nil
}

// RejectDeliveryBoy блокирует курьера.
func (r *PostgresRepository) RejectDeliveryBoy(ctx context.Context, id string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET is_disabled = TRUE
		 WHERE id = $1 AND role = $2
		 RETURNING `+userColumns,
		id, string(model.RoleDeliveryBoy),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("delivery boy %s: %w", id, ErrNotFound)
		}
		return nil, wrapErr("reject delivery boy", err)
	}
	return &u, nil
}
