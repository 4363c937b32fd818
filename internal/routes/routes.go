package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/authgate/internal/config"
	"github.com/example/authgate/internal/handlers"
	"github.com/example/authgate/internal/middleware"
	"github.com/example/authgate/internal/services"
	"github.com/example/authgate/internal/store"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	credentials := store.New(db)
	otp := services.NewOTPService(cfg.OTPBaseURL, cfg.OTPTimeout)
	authService := services.NewAuthService(credentials, otp, cfg)

	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(authService)

	app.Post("/signup", authHandler.Signup)
	app.Post("/verify-signup", authHandler.VerifySignup)
	app.Post("/login", authHandler.Login)
	app.Post("/verify-login", authHandler.VerifyLogin)

	authed := middleware.AuthMiddleware(cfg)
	app.Get("/user", authed, profileHandler.GetUser)
	app.Put("/user", authed, profileHandler.UpdateUser)
}
