package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/app"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/config"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/controllers"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/routes"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-middleware"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-seeding"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize auth-service:", err)
	}
	defer application.Close()

	if cfg.LDFlag_SeedDbWithTestData {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := seeding.SeedDefaultUser(ctx, application.Users); err != nil {
			utils.Logger.Fatal("Failed to seed default user:", err)
		}
		cancel()
	}

	userService := services.NewUserService(application.Users, cfg.JWTSecret, cfg.TokenTTL)

	healthController := controllers.NewHealthController(application)
	userController := controllers.NewUserController(userService)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.RequestLogging)

	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.Login, userController.LoginHandler).Methods(http.MethodPost)
	if cfg.LDFlag_AllowSignup {
		router.HandleFunc(routes.Signup, userController.SignupHandler).Methods(http.MethodPost)
	} else {
		utils.Logger.Warn("Signup disabled by allow_signup flag")
	}

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", utils.HeaderRequestID},
		ExposedHeaders:   []string{utils.HeaderRequestID},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("auth-service failed to start:", err)
	}
}
