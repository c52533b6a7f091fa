package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/gymstore/internal/model"
)

// money кодирует сумму JSON-числом без потери точности.
func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type productResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Price       json.Number       `json:"price"`
	Stock       int               `json:"stock"`
	Images      []string          `json:"images"`
	ImageURLs   []string          `json:"imageUrls"`
	Category    *categoryResponse `json:"category"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}

func (h *Handler) toProduct(p model.Product) productResponse {
	resp := productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       money(p.Price),
		Stock:       p.Stock,
		Images:      p.Images,
		ImageURLs:   make([]string, 0, len(p.Images)),
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	for _, img := range p.Images {
		if url := h.service.ImageURL(img); url != nil {
			resp.ImageURLs = append(resp.ImageURLs, *url)
		}
	}
	if p.CategoryID != nil {
		resp.Category = &categoryResponse{ID: *p.CategoryID}
		if p.CategoryName != nil {
			resp.Category.Name = *p.CategoryName
		}
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
		resp.UpdatedAt = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

type productSummary struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Stock    int         `json:"stock"`
	Image    *string     `json:"image"`
	ImageURL *string     `json:"imageUrl"`
}

func (h *Handler) toProductSummary(p *model.Product) *productSummary {
	if p == nil {
		return nil
	}
	resp := &productSummary{
		ID:    p.ID,
		Name:  p.Name,
		Price: money(p.Price),
		Stock: p.Stock,
	}
	if img := p.FirstImage(); img != "" {
		resp.Image = &img
		resp.ImageURL = h.service.ImageURL(img)
	}
	return resp
}

type cartItemResponse struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Product   *productSummary `json:"product"`
}

type cartResponse struct {
	UserID string             `json:"userId"`
	Items  []cartItemResponse `json:"items"`
}

func (h *Handler) toCart(userID string, items []model.CartItem) cartResponse {
	resp := cartResponse{UserID: userID, Items: make([]cartItemResponse, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, cartItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   h.toProductSummary(it.Product),
		})
	}
	return resp
}

type orderItemResponse struct {
	ProductID string      `json:"productId"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
	Image     *string     `json:"image"`
	ImageURL  *string     `json:"imageUrl"`
}

type orderUserResponse struct {
	ID     string `json:"id"`
	FName  string `json:"fname"`
	LName  string `json:"lname"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Mobile string `json:"mobile"`
}

func toOrderUser(u *model.User) *orderUserResponse {
	if u == nil {
		return nil
	}
	return &orderUserResponse{
		ID:     u.ID,
		FName:  u.FirstName,
		LName:  u.LastName,
		Name:   u.FullName(),
		Email:  u.Email,
		Mobile: u.Mobile,
	}
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	Items         []orderItemResponse `json:"items"`
	Address       model.Address       `json:"address"`
	Amount        json.Number         `json:"amount"`
	PaymentMethod string              `json:"paymentMethod"`
	PaymentData   map[string]any      `json:"paymentData,omitempty"`
	DeliveryBoyID *string             `json:"deliveryBoyId"`
	DeliveryOTP   *string             `json:"deliveryOtp,omitempty"`
	Status        string              `json:"status"`
	CancelledAt   *string             `json:"cancelledAt"`
	DeliveredAt   *string             `json:"deliveredAt"`
	CreatedAt     string              `json:"createdAt"`
	UpdatedAt     string              `json:"updatedAt"`
	User          *orderUserResponse  `json:"user,omitempty"`
	DeliveryBoy   *orderUserResponse  `json:"deliveryBoy,omitempty"`
}

// toOrder формирует представление заказа. Код доставки показывается только
// владельцу заказа и администратору.
func (h *Handler) toOrder(o model.Order, withOTP bool) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         make([]orderItemResponse, 0, len(o.Items)),
		Address:       o.Address,
		Amount:        money(o.Amount),
		PaymentMethod: string(o.PaymentMethod),
		PaymentData:   o.PaymentData,
		DeliveryBoyID: o.DeliveryBoyID,
		Status:        string(o.Status),
		CancelledAt:   timePtr(o.CancelledAt),
		DeliveredAt:   timePtr(o.DeliveredAt),
		CreatedAt:     o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     o.UpdatedAt.UTC().Format(time.RFC3339),
		User:          toOrderUser(o.Owner),
		DeliveryBoy:   toOrderUser(o.DeliveryBoy),
	}
	if withOTP {
		resp.DeliveryOTP = o.DeliveryOTP
	}

	for _, it := range o.Items {
		item := orderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     money(it.Price),
			Quantity:  it.Quantity,
			Image:     it.Image,
		}
		if it.Image != nil {
			item.ImageURL = h.service.ImageURL(*it.Image)
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}

func (h *Handler) toOrders(orders []model.Order, withOTP bool) []orderResponse {
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, h.toOrder(o, withOTP))
	}
	return resp
}

type userResponse struct {
	ID                    string  `json:"id"`
	FName                 string  `json:"fname"`
	LName                 string  `json:"lname"`
	Email                 string  `json:"email"`
	Mobile                string  `json:"mobile"`
	State                 string  `json:"state"`
	District              string  `json:"district"`
	City                  string  `json:"city"`
	LocalArea             string  `json:"localArea"`
	ProfileImage          string  `json:"profileImage"`
	Role                  string  `json:"role"`
	IsDisabled            bool    `json:"isDisabled"`
	DeliveryBoyApproved   bool    `json:"deliveryBoyApproved"`
	DeliveryBoyApprovedBy *string `json:"deliveryBoyApprovedBy,omitempty"`
	DeliveryBoyApprovedAt *string `json:"deliveryBoyApprovedAt,omitempty"`
	VehicleType           *string `json:"vehicleType,omitempty"`
	VehicleNumber         string  `json:"vehicleNumber,omitempty"`
	AadharNumber          string  `json:"aadharNumber,omitempty"`
	CreatedAt             string  `json:"createdAt"`
}

func toUser(u model.User) userResponse {
	resp := userResponse{
		ID:                    u.ID,
		FName:                 u.FirstName,
		LName:                 u.LastName,
		Email:                 u.Email,
		Mobile:                u.Mobile,
		State:                 u.State,
		District:              u.District,
		City:                  u.City,
		LocalArea:             u.LocalArea,
		ProfileImage:          u.ProfileImage,
		Role:                  string(u.Role),
		IsDisabled:            u.IsDisabled,
		DeliveryBoyApproved:   u.DeliveryBoyApproved,
		DeliveryBoyApprovedBy: u.DeliveryBoyApprovedBy,
		DeliveryBoyApprovedAt: timePtr(u.DeliveryBoyApprovedAt),
		VehicleNumber:         u.VehicleNumber,
		AadharNumber:          u.AadharNumber,
		CreatedAt:             u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.VehicleType != nil {
		v := string(*u.VehicleType)
		resp.VehicleType = &v
	}
	return resp
}

func toUsers(users []model.User) []userResponse {
	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUser(u))
	}
	return resp
}

type wishlistItemResponse struct {
	ProductID string          `json:"productId"`
	Product   *productSummary `json:"product"`
	AddedAt   string          `json:"addedAt"`
}

type reviewResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	User      struct {
		FName string `json:"fname"`
	} `json:"user"`
	CreatedAt string `json:"createdAt"`
}

func toReview(rv model.Review) reviewResponse {
	resp := reviewResponse{
		ID:        rv.ID,
		UserID:    rv.UserID,
		ProductID: rv.ProductID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt.UTC().Format(time.RFC3339),
	}
	resp.User.FName = rv.UserFirstName
	return resp
}

type workoutResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	VideoURL    string  `json:"videoUrl"`
	Thumbnail   string  `json:"thumbnail"`
	UserID      *string `json:"userId"`
	CreatedAt   string  `json:"createdAt"`
}

func toWorkout(w model.Workout) workoutResponse {
	return workoutResponse{
		ID:          w.ID,
		Title:       w.Title,
		Description: w.Description,
		Category:    w.Category,
		VideoURL:    w.VideoURL,
		Thumbnail:   w.Thumbnail,
		UserID:      w.UserID,
		CreatedAt:   w.CreatedAt.UTC().Format(time.RFC3339),
	}
}
