package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vericert-api/internal/application/auth"
	"github.com/jhoicas/vericert-api/internal/application/certificate"
	"github.com/jhoicas/vericert-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	CertUC    *certificate.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Verificación pública de certificados (sin token)
	verifyHandler := NewVerifyHandler(deps.CertUC)
	api.Get("/verify-certificate/:id", verifyHandler.Verify)

	// Rutas del emisor (Bearer Token + rol emisor)
	issuer := api.Group("/issuer",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(entity.RoleAdmin, entity.RoleOrganization),
	)
	issuer.Put("/profile", authHandler.UpdateProfile)

	certHandler := NewCertificateHandler(deps.CertUC)
	issuer.Post("/certificates", certHandler.Store)
	// send-batch antes de :id para que Fiber no lo capture como parámetro.
	issuer.Post("/certificates/send-batch", certHandler.SendBatch)
	issuer.Get("/certificates/:id", certHandler.GetByID)
	issuer.Get("/certificates/:id/qr", certHandler.SendWithQR)
}
