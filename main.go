// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"pumpkin-store/controllers"
	"pumpkin-store/middleware"
	"pumpkin-store/routes"
	"pumpkin-store/store"
	"pumpkin-store/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}
	cfg := utils.LoadConfig()

	// Connect to MongoDB
	client, err := store.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Fatal(err)
		}
	}()

	stores, err := store.NewMongoStores(context.Background(), client, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}

	// Shared services
	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.CookieExpireDays)
	emailService := utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender, cfg.ClientURL)
	imageStore := utils.NewDiskImageStore(cfg.UploadDir, cfg.UploadBaseURL)
	auth := middleware.NewAuth(tokens, stores.Users)

	// Controllers
	userController := controllers.NewUserController(stores.Users, tokens, emailService, imageStore)
	productController := controllers.NewProductController(stores.Products, imageStore)
	orderController := controllers.NewOrderController(stores.Orders, stores.Products, stores.Users)
	dashboardController := controllers.NewDashboardController(stores.Products, stores.Orders, stores.Users)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, auth, userController, productController, orderController, dashboardController)

	// Serve uploaded images
	router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	fmt.Printf("Server is running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
