package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/service"
)

type userRequest struct {
	FName         string `json:"fname"`
	LName         string `json:"lname"`
	Email         string `json:"email"`
	Mobile        string `json:"mobile"`
	State         string `json:"state"`
	District      string `json:"district"`
	City          string `json:"city"`
	LocalArea     string `json:"localArea"`
	ProfileImage  string `json:"profileImage"`
	VehicleType   string `json:"vehicleType"`
	VehicleNumber string `json:"vehicleNumber"`
	AadharNumber  string `json:"aadharNumber"`
}

func (req userRequest) input() service.UserInput {
	in := service.UserInput{
		FirstName:     req.FName,
		LastName:      req.LName,
		Email:         req.Email,
		Mobile:        req.Mobile,
		State:         req.State,
		District:      req.District,
		City:          req.City,
		LocalArea:     req.LocalArea,
		ProfileImage:  req.ProfileImage,
		VehicleNumber: req.VehicleNumber,
		AadharNumber:  req.AadharNumber,
	}
	if req.VehicleType != "" {
		v := model.VehicleType(req.VehicleType)
		in.VehicleType = &v
	}
	return in
}

// RegisterUser регистрирует профиль покупателя.
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "register user", err)
		return
	}

	u, err := h.service.RegisterUser(r.Context(), req.input())
	if err != nil {
		h.writeError(w, r, "register user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUser(*u))
}

// RegisterDeliveryBoy регистрирует курьера, ожидающего одобрения.
func (h *Handler) RegisterDeliveryBoy(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "register delivery boy", err)
		return
	}

	u, err := h.service.RegisterDeliveryBoy(r.Context(), req.input())
	if err != nil {
		h.writeError(w, r, "register delivery boy", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUser(*u))
}

// GetUser возвращает профиль пользователя.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get user", err, zap.String("userID", id))
		return
	}
	writeJSON(w, http.StatusOK, toUser(*u))
}

// ListUsers возвращает всех пользователей.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, toUsers(users))
}

// UpdateUser обновляет заполненные поля профиля.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "update user", err)
		return
	}

	u, err := h.service.UpdateUser(r.Context(), id, req.input())
	if err != nil {
		h.writeError(w, r, "update user", err, zap.String("userID", id))
		return
	}
	writeJSON(w, http.StatusOK, toUser(*u))
}

// ToggleUserDisabled блокирует или разблокирует пользователя.
func (h *Handler) ToggleUserDisabled(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	disabled, err := h.service.ToggleUserDisabled(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "toggle user", err, zap.String("userID", id))
		return
	}
	writeJSON(w, http.StatusOK, struct {
		ID         string `json:"id"`
		IsDisabled bool   `json:"isDisabled"`
	}{ID: id, IsDisabled: disabled})
}

// ListPendingDeliveryBoys возвращает курьеров, ожидающих одобрения.
func (h *Handler) ListPendingDeliveryBoys(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListPendingDeliveryBoys(r.Context())
	if err != nil {
		h.writeError(w, r, "list pending delivery boys", err)
		return
	}
	writeJSON(w, http.StatusOK, toUsers(users))
}

// ListApprovedDeliveryBoys возвращает одобренных курьеров.
func (h *Handler) ListApprovedDeliveryBoys(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListApprovedDeliveryBoys(r.Context())
	if err != nil {
		h.writeError(w, r, "list approved delivery boys", err)
		return
	}
	writeJSON(w, http.StatusOK, toUsers(users))
}

type approvalRequest struct {
	AdminID string `json:"adminId"`
	Reason  string `json:"reason"`
}

// ApproveDeliveryBoy одобряет курьера от имени администратора.
func (h *Handler) ApproveDeliveryBoy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "approve delivery boy", err)
		return
	}

	u, err := h.service.ApproveDeliveryBoy(r.Context(), id, requestUserID(r, req.AdminID))
	if err != nil {
		h.writeError(w, r, "approve delivery boy", err, zap.String("userID", id))
		return
	}
	writeJSON(w, http.StatusOK, toUser(*u))
}

// RejectDeliveryBoy отклоняет заявку курьера и блокирует учётную запись.
func (h *Handler) RejectDeliveryBoy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req approvalRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "reject delivery boy", err)
		return
	}

	u, err := h.service.RejectDeliveryBoy(r.Context(), id, requestUserID(r, req.AdminID), req.Reason)
	if err != nil {
		h.writeError(w, r, "reject delivery boy", err, zap.String("userID", id))
		return
	}
	writeJSON(w, http.StatusOK, toUser(*u))
}
