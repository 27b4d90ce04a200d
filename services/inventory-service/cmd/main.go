package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/app"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/config"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/controllers"
	"github.com/AndreaCerratoSP/CIAMS/services/inventory-service/internal/services"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-middleware"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-seeding"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize inventory-service:", err)
	}
	defer application.Close()

	if cfg.LDFlag_SeedDbWithTestData {
		if err := seeding.SeedInventory(context.Background(), application.Store); err != nil {
			utils.Logger.Fatal("Failed to seed inventory data:", err)
		}
	}

	// Services
	officeService := services.NewOfficeService(application.Store, application.OfficeCache())
	assetTypeService := services.NewAssetTypeService(application.Store, application.Cache)
	licenseService := services.NewSoftwareLicenseService(application.Store)
	assetService := services.NewAssetService(application.Store, application.Publisher)

	// Controllers
	ctrls := &controllers.Controllers{
		Health:           controllers.NewHealthController(application),
		Assets:           controllers.NewAssetController(assetService),
		AssetTypes:       controllers.NewAssetTypeController(assetTypeService),
		Offices:          controllers.NewOfficeController(officeService),
		SoftwareLicenses: controllers.NewSoftwareLicenseController(licenseService),
	}

	// Router setup
	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.RequestLogging)

	authOpts := middleware.AuthOptions{JWTSecret: cfg.JWTSecret, BasicUsers: cfg.BasicUsers}
	if !authOpts.Enabled() {
		utils.Logger.Warn("No JWT_SECRET or BASIC_AUTH_USERS configured; inventory routes are unauthenticated")
	}
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(authOpts))
	ctrls.Register(router, secured)

	// License expiry digest
	c := cron.New(cron.WithLocation(time.UTC))
	if cfg.LDFlag_LicenseExpiryNotifications {
		sender := services.NewLogDigestSender()
		if cfg.SendgridAPIKey != "" && len(cfg.LicenseExpiryRecipients) > 0 {
			sender = services.NewSendgridDigestSender(cfg.SendgridAPIKey, cfg.SendgridFromEmail)
		} else {
			utils.Logger.Info("SendGrid not configured; license expiry digests will be logged")
		}
		notifier := services.NewLicenseExpiryNotifier(licenseService, sender, cfg.LicenseExpiryRecipients)
		if err := notifier.Schedule(c, cfg.LicenseExpiryCron); err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule license expiry cron")
		}
		c.Start()
		defer c.Stop()
		utils.Logger.Infof("Scheduled license expiry cron job (%s)", cfg.LicenseExpiryCron)
	}

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", utils.HeaderRequestID},
		ExposedHeaders:   []string{utils.HeaderRequestID},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("inventory-service failed to start:", err)
	}
}
