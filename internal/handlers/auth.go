package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/authgate/internal/services"
)

// AuthHandler bundles dependencies for the signup and login endpoints.
type AuthHandler struct {
	svc *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *services.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Signup stages a new registration and triggers the OTP challenge.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.InitiateSignup(services.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	}); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent to your WhatsApp",
	})
}

type verifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifySignup confirms a staged registration and returns a session.
func (h *AuthHandler) VerifySignup(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.svc.ConfirmSignup(req.Phone, req.Code)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   session.Token,
		"user": fiber.Map{
			"id":    session.User.ID,
			"name":  session.User.Name,
			"email": session.User.Email,
			"phone": session.User.Phone,
		},
	})
}

type loginRequest struct {
	Phone string `json:"phone"`
}

// Login triggers an OTP challenge for an existing account.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.svc.LoginChallenge(req.Phone); err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "OTP sent to your WhatsApp",
	})
}

// VerifyLogin checks the OTP and returns a session for the account.
func (h *AuthHandler) VerifyLogin(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.svc.VerifyLogin(req.Phone, req.Code)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   session.Token,
		"user": fiber.Map{
			"id":    session.User.ID,
			"name":  session.User.Name,
			"email": session.User.Email,
			"phone": session.User.Phone,
		},
	})
}
