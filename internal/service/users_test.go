package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/gymstore/internal/model"
)

func TestRegisterUser_NormalizesEmail(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, Deps{})
	svc.newID = func() string { return "u1" }

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "ravi@example.com" && u.Role == model.RoleUser && u.VehicleType == nil
	})).Return(nil).Once()
	repo.On("GetUser", mock.Anything, "u1").Return(&model.User{ID: "u1", Role: model.RoleUser}, nil).Once()

	bike := model.VehicleBike
	_, err := svc.RegisterUser(context.Background(), UserInput{
		FirstName:   "Ravi",
		Email:       "  Ravi@Example.COM ",
		VehicleType: &bike,
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRegisterUser_Validation(t *testing.T) {
	svc := NewService(&mockRepo{}, Deps{})

	_, err := svc.RegisterUser(context.Background(), UserInput{Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.RegisterUser(context.Background(), UserInput{FirstName: "A", Email: "nope"})
	assert.ErrorIs(t, err, ErrValidation)

	truck := model.VehicleType("truck")
	_, err = svc.RegisterDeliveryBoy(context.Background(), UserInput{FirstName: "A", Email: "a@b.c", VehicleType: &truck})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterUser_Duplicate(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, Deps{})

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(ErrAlreadyExists)

	_, err := svc.RegisterUser(context.Background(), UserInput{FirstName: "A", Email: "a@b.c"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestApproveDeliveryBoy_RequiresAdmin(t *testing.T) {
	tests := []struct {
		name    string
		admin   *model.User
		getErr  error
		wantErr error
	}{
		{"unknown approver", nil, ErrNotFound, ErrForbidden},
		{"plain user", &model.User{ID: "a1", Role: model.RoleUser}, nil, ErrForbidden},
		{"disabled admin", &model.User{ID: "a1", Role: model.RoleAdmin, IsDisabled: true}, nil, ErrForbidden},
		{"admin", &model.User{ID: "a1", Role: model.RoleAdmin}, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := NewService(repo, Deps{})

			repo.On("GetUser", mock.Anything, "a1").Return(tt.admin, tt.getErr)
			repo.On("ApproveDeliveryBoy", mock.Anything, "d1", "a1").
				Return(&model.User{ID: "d1", DeliveryBoyApproved: true}, nil)

			got, err := svc.ApproveDeliveryBoy(context.Background(), "d1", "a1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "ApproveDeliveryBoy", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.DeliveryBoyApproved)
		})
	}
}

func TestRejectDeliveryBoy_EmptyAdmin(t *testing.T) {
	svc := NewService(&mockRepo{}, Deps{})

	_, err := svc.RejectDeliveryBoy(context.Background(), "d1", "", "incomplete documents")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateUser_KeepsUnsetFields(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, Deps{})

	current := &model.User{ID: "u1", FirstName: "Ravi", LastName: "Kumar", City: "Pune", Role: model.RoleUser}
	repo.On("GetUser", mock.Anything, "u1").Return(current, nil)
	repo.On("UpdateUserProfile", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.FirstName == "Ravi" && u.LastName == "Kumar" && u.City == "Mumbai"
	})).Return(&model.User{ID: "u1", City: "Mumbai"}, nil).Once()

	got, err := svc.UpdateUser(context.Background(), "u1", UserInput{City: "Mumbai"})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", got.City)
	repo.AssertExpectations(t)
}
