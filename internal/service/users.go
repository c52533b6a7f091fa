package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/validation"
)

// UserInput описывает поля профиля пользователя или курьера.
type UserInput struct {
	FirstName     string
	LastName      string
	Email         string
	Mobile        string
	State         string
	District      string
	City          string
	LocalArea     string
	ProfileImage  string
	VehicleType   *model.VehicleType
	VehicleNumber string
	AadharNumber  string
}

// RegisterUser создаёт профиль покупателя.
func (s *Service) RegisterUser(ctx context.Context, in UserInput) (*model.User, error) {
	return s.register(ctx, in, model.RoleUser)
}

// RegisterDeliveryBoy создаёт профиль курьера, ожидающего одобрения.
func (s *Service) RegisterDeliveryBoy(ctx context.Context, in UserInput) (*model.User, error) {
	if in.VehicleType != nil && !in.VehicleType.Valid() {
		return nil, validationErr("vehicle type must be bike, scooter or car")
	}
	return s.register(ctx, in, model.RoleDeliveryBoy)
}

func (s *Service) register(ctx context.Context, in UserInput, role model.Role) (*model.User, error) {
	email := validation.NormalizeEmail(in.Email)
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, validationErr("fname is required")
	}
	if !validation.IsValidEmail(email) {
		return nil, validationErr("invalid email %q", in.Email)
	}

	u := model.User{
		ID:           s.newID(),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		Mobile:       in.Mobile,
		State:        in.State,
		District:     in.District,
		City:         in.City,
		LocalArea:    in.LocalArea,
		ProfileImage: in.ProfileImage,
		Role:         role,
	}
	if role == model.RoleDeliveryBoy {
		u.VehicleType = in.VehicleType
		u.VehicleNumber = in.VehicleNumber
		u.AadharNumber = in.AadharNumber
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, u.ID)
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := requireID("userId", id); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, id)
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUser обновляет профиль пользователя. Пустые поля ввода сохраняют текущие значения.
func (s *Service) UpdateUser(ctx context.Context, id string, in UserInput) (*model.User, error) {
	if err := requireID("userId", id); err != nil {
		return nil, err
	}
	if in.VehicleType != nil && !in.VehicleType.Valid() {
		return nil, validationErr("vehicle type must be bike, scooter or car")
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	overlay(&u.FirstName, in.FirstName)
	overlay(&u.LastName, in.LastName)
	overlay(&u.Mobile, in.Mobile)
	overlay(&u.State, in.State)
	overlay(&u.District, in.District)
	overlay(&u.City, in.City)
	overlay(&u.LocalArea, in.LocalArea)
	overlay(&u.ProfileImage, in.ProfileImage)
	overlay(&u.VehicleNumber, in.VehicleNumber)
	if in.VehicleType != nil {
		u.VehicleType = in.VehicleType
	}

	return s.repo.UpdateUserProfile(ctx, *u)
}

func overlay(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

// ToggleUserDisabled блокирует или разблокирует пользователя и возвращает новое состояние.
func (s *Service) ToggleUserDisabled(ctx context.Context, id string) (bool, error) {
	if err := requireID("userId", id); err != nil {
		return false, err
	}
	return s.repo.ToggleUserDisabled(ctx, id)
}

// ListPendingDeliveryBoys возвращает курьеров, ожидающих одобрения.
func (s *Service) ListPendingDeliveryBoys(ctx context.Context) ([]model.User, error) {
	return s.repo.ListDeliveryBoys(ctx, false)
}

// ListApprovedDeliveryBoys возвращает одобренных курьеров.
func (s *Service) ListApprovedDeliveryBoys(ctx context.Context) ([]model.User, error) {
	return s.repo.ListDeliveryBoys(ctx, true)
}

// ApproveDeliveryBoy одобряет курьера от имени администратора adminID.
func (s *Service) ApproveDeliveryBoy(ctx context.Context, id, adminID string) (*model.User, error) {
	if err := requireID("deliveryBoyId", id); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	u, err := s.repo.ApproveDeliveryBoy(ctx, id, adminID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery boy approved", zap.String("userID", id), zap.String("adminID", adminID))
	return u, nil
}

// RejectDeliveryBoy отклоняет заявку курьера и блокирует его.
func (s *Service) RejectDeliveryBoy(ctx context.Context, id, adminID, reason string) (*model.User, error) {
	if err := requireID("deliveryBoyId", id); err != nil {
		return nil, err
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	u, err := s.repo.RejectDeliveryBoy(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery boy rejected",
		zap.String("userID", id),
		zap.String("adminID", adminID),
		zap.String("reason", reason),
	)
	return u, nil
}

func (s *Service) requireAdmin(ctx context.Context, adminID string) error {
	if strings.TrimSpace(adminID) == "" {
		return fmt.Errorf("%w: admin id is required", ErrForbidden)
	}

	admin, err := s.repo.GetUser(ctx, adminID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: unknown admin %s", ErrForbidden, adminID)
		}
		return err
	}
	if admin.Role != model.RoleAdmin || admin.IsDisabled {
		return fmt.Errorf("%w: user %s is not an admin", ErrForbidden, adminID)
	}
	return nil
}
