package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	custommiddleware "github.com/mmeshcher/gymstore/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware магазина.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/{userId}", h.GetCart)
			r.Post("/add", h.AddToCart)
			r.Put("/update", h.UpdateCartQuantity)
			r.Delete("/item/{productId}", h.RemoveFromCart)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.CreateOrder)
			r.Get("/admin", h.ListAllOrders)
			r.Get("/user/{id}", h.ListUserOrders)
			r.Get("/delivery-boy/{id}", h.ListDeliveryBoyOrders)
			r.Get("/has-bought/{userId}/{productId}", h.HasBought)
			r.Put("/cancel/{id}", h.CancelOrder)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}/address", h.UpdateOrderAddress)
			r.Put("/{id}/status", h.SetOrderStatus)
			r.Put("/{id}/advance", h.AdvanceOrderStatus)
			r.Put("/{id}/assign", h.AssignDeliveryBoy)
			r.Post("/{id}/verify-delivery-otp", h.VerifyDeliveryOTP)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.RegisterUser)
			r.Post("/delivery-boys", h.RegisterDeliveryBoy)
			r.Get("/{id}", h.GetUser)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/users", h.ListUsers)
			r.Put("/users/{id}", h.UpdateUser)
			r.Delete("/users/{id}", h.ToggleUserDisabled)
			r.Get("/pending-delivery-boys", h.ListPendingDeliveryBoys)
			r.Get("/approved-delivery-boys", h.ListApprovedDeliveryBoys)
			r.Put("/approve-delivery-boy/{id}", h.ApproveDeliveryBoy)
			r.Put("/reject-delivery-boy/{id}", h.RejectDeliveryBoy)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(custommiddleware.RequireUser)

			r.Get("/", h.ListWishlist)
			r.Post("/", h.AddToWishlist)
			r.Get("/check/{productId}", h.CheckWishlist)
			r.Post("/toggle", h.ToggleWishlist)
			r.Delete("/{productId}", h.RemoveFromWishlist)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", h.CreateReview)
			r.Get("/{id}", h.ListReviews)
			r.Delete("/{id}", h.DeleteReview)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", h.ListWorkouts)
			r.Post("/", h.CreateWorkout)
			r.Get("/{id}", h.GetWorkout)
			r.Put("/{id}", h.UpdateWorkout)
			r.Delete("/{id}", h.DeleteWorkout)
		})

		r.Post("/payment/create-payment-intent", h.CreatePaymentIntent)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
