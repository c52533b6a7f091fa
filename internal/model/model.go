// Package model содержит доменные сущности магазина спортивных товаров.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role описывает роль пользователя.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleUser        Role = "user"
	RoleDeliveryBoy Role = "delivery_boy"
)

// VehicleType описывает транспорт курьера.
type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleScooter VehicleType = "scooter"
	VehicleCar     VehicleType = "car"
)

// Valid сообщает, входит ли тип транспорта в допустимый набор.
func (v VehicleType) Valid() bool {
	switch v {
	case VehicleBike, VehicleScooter, VehicleCar:
		return true
	}
	return false
}

// User представляет учётную запись покупателя, администратора или курьера.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Mobile       string
	State        string
	District     string
	City         string
	LocalArea    string
	ProfileImage string
	Role         Role
	IsDisabled   bool

	// Поля курьера.
	DeliveryBoyApproved   bool
	DeliveryBoyApprovedBy *string
	DeliveryBoyApprovedAt *time.Time
	VehicleType           *VehicleType
	VehicleNumber         string
	AadharNumber          string

	CreatedAt time.Time
}

// FullName возвращает имя и фамилию пользователя через пробел.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Category описывает категорию каталога.
type Category struct {
	ID   string
	Name string
}

// Product описывает товар каталога.
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	Stock        int
	Images       []string
	CategoryID   *string
	CategoryName *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FirstImage возвращает первое изображение товара или пустую строку.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CartItem описывает позицию корзины. Product равен nil, если товар удалён из каталога.
type CartItem struct {
	ProductID string
	Quantity  int
	Product   *Product
}

// WishlistItem описывает товар в списке желаний пользователя.
type WishlistItem struct {
	UserID    string
	ProductID string
	Product   *Product
	CreatedAt time.Time
}

// Review описывает отзыв покупателя о товаре.
type Review struct {
	ID            string
	UserID        string
	ProductID     string
	Rating        int
	Comment       string
	UserFirstName string
	CreatedAt     time.Time
}

// Workout описывает обучающее видео с тренировкой.
type Workout struct {
	ID          string
	Title       string
	Description string
	Category    string
	VideoURL    string
	Thumbnail   string
	UserID      *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
