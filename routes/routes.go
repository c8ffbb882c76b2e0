// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"pumpkin-store/controllers"
	"pumpkin-store/middleware"
	"pumpkin-store/models"
)

// RegisterRoutes sets up all the routes for the application under /api/v1.
func RegisterRoutes(
	router *mux.Router,
	auth *middleware.Auth,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	orderController *controllers.OrderController,
	dashboardController *controllers.DashboardController,
) {
	api := router.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/register", middleware.Handle(userController.Register)).Methods("POST")
	api.HandleFunc("/verify-email/{token}", middleware.Handle(userController.VerifyEmail)).Methods("GET")
	api.HandleFunc("/resend-verification", middleware.Handle(userController.ResendVerification)).Methods("POST")
	api.HandleFunc("/login", middleware.Handle(userController.Login)).Methods("POST")
	api.HandleFunc("/logout", middleware.Handle(userController.Logout)).Methods("POST")
	api.HandleFunc("/password/forgot", middleware.Handle(userController.ForgotPassword)).Methods("POST")
	api.HandleFunc("/reset/{token}", middleware.Handle(userController.ResetPassword)).Methods("POST")
	api.HandleFunc("/products", middleware.Handle(productController.GetAllProducts)).Methods("GET")
	api.HandleFunc("/product/{id}", middleware.Handle(productController.GetSingleProduct)).Methods("GET")
	api.HandleFunc("/reviews", middleware.Handle(productController.GetProductReviews)).Methods("GET")

	// Authenticated routes
	protected := api.NewRoute().Subrouter()
	protected.Use(auth.VerifyUserAuth)
	protected.HandleFunc("/profile", middleware.Handle(userController.GetProfile)).Methods("POST")
	protected.HandleFunc("/profile/update", middleware.Handle(userController.UpdateProfile)).Methods("PUT")
	protected.HandleFunc("/password/update", middleware.Handle(userController.UpdatePassword)).Methods("POST")
	protected.HandleFunc("/review", middleware.Handle(productController.CreateReview)).Methods("PUT")
	protected.HandleFunc("/reviews", middleware.Handle(productController.DeleteReview)).Methods("DELETE")
	protected.HandleFunc("/new/order", middleware.Handle(orderController.CreateOrder)).Methods("POST")
	protected.HandleFunc("/orders/user", middleware.Handle(orderController.AllMyOrders)).Methods("GET")
	protected.HandleFunc("/order/{id}", middleware.Handle(orderController.GetSingleOrder)).Methods("GET")

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(auth.VerifyUserAuth)
	admin.Use(auth.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/products", middleware.Handle(productController.GetAdminProducts)).Methods("GET")
	admin.HandleFunc("/product/create", middleware.Handle(productController.CreateProduct)).Methods("POST")
	admin.HandleFunc("/product/{id}", middleware.Handle(productController.UpdateProduct)).Methods("PUT")
	admin.HandleFunc("/product/{id}", middleware.Handle(productController.DeleteProduct)).Methods("DELETE")
	admin.HandleFunc("/users", middleware.Handle(userController.GetUserList)).Methods("GET")
	admin.HandleFunc("/user/{id}", middleware.Handle(userController.GetSingleUser)).Methods("GET")
	admin.HandleFunc("/user/{id}", middleware.Handle(userController.UpdateUserRole)).Methods("PUT")
	admin.HandleFunc("/user/{id}", middleware.Handle(userController.DeleteUser)).Methods("DELETE")
	admin.HandleFunc("/orders", middleware.Handle(orderController.GetAllOrders)).Methods("GET")
	admin.HandleFunc("/order/{id}", middleware.Handle(orderController.UpdateOrderStatus)).Methods("PUT")
	admin.HandleFunc("/order/{id}", middleware.Handle(orderController.DeleteOrder)).Methods("DELETE")
	admin.HandleFunc("/dashboard/stats", middleware.Handle(dashboardController.GetDashboardStats)).Methods("GET")
}
