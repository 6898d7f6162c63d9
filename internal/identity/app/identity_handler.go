package app

import (
	"fmt"
	"strings"

	directoryapp "pharmacy_delivery_service/internal/directory/app"
	"pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/logger"
	"pharmacy_delivery_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdentityHandler handles account HTTP requests
type IdentityHandler struct {
	Usecase   IdentityUseCase
	Resolver  *Resolver
	Directory directoryapp.DirectoryUseCase
}

// NewIdentityHandler create IdentityHandler
func NewIdentityHandler(usecase IdentityUseCase, resolver *Resolver, directory directoryapp.DirectoryUseCase) *IdentityHandler {
	return &IdentityHandler{
		Usecase:   usecase,
		Resolver:  resolver,
		Directory: directory,
	}
}

// Register create a new account
// @Summary Register a new account
// @Description Creates a customer or vendor operator account
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body object true "registration fields"
// @Success 200 {object} string "register success"
// @Failure 400 {object} string "bad request"
// @Failure 500 {object} string "server error"
// @Router /identity/register [post]
func (h *IdentityHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		Role         string `json:"role"`
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		PharmacyName string `json:"pharmacy_name"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Register request", zap.String("email", req.Email), zap.String("role", req.Role))

	err := h.Usecase.Register(c.Context(), RegisterParam{
		Email:        req.Email,
		Password:     req.Password,
		Role:         domain.Role(req.Role),
		Name:         req.Name,
		Phone:        req.Phone,
		PharmacyName: req.PharmacyName,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "register success"})
}

// Login sign in with email and password
// @Summary Sign in
// @Description Verifies the credentials and returns a session token
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body object true "email and password"
// @Success 200 {object} string "token"
// @Failure 400 {object} string "bad request"
// @Failure 401 {object} string "login failed"
// @Router /identity/login [post]
func (h *IdentityHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login", zap.String("Email", req.Email))

	t, err := h.Usecase.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"token": t, "message": "login success"})
}

// Logout sign out the current session
// @Summary Sign out
// @Description Clears the session behind the presented token
// @Tags Identity
// @Accept json
// @Produce json
// @Success 200 {object} string "logout success"
// @Failure 401 {object} string "invalid token"
// @Failure 500 {object} string "server error"
// @Router /identity/logout [post]
func (h *IdentityHandler) Logout(c *fiber.Ctx) error {
	tokenStr := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if tokenStr == "" {
		tokenStr = c.Query(middlewares.QueryToken)
	}
	if tokenStr == "" {
		tokenStr = c.Cookies(middlewares.CookieToken)
	}

	if err := h.Usecase.Logout(c.Context(), tokenStr); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "logout success"})
}

// Me resolve the chat identity of the signed-in account
// @Summary Resolve the current identity
// @Description Role, stable chat id and display name of the signed-in account
// @Tags Identity
// @Produce json
// @Success 200 {object} string "identity"
// @Failure 401 {object} string "not signed in"
// @Failure 500 {object} string "unresolved vendor"
// @Router /identity/me [get]
func (h *IdentityHandler) Me(c *fiber.Ctx) error {
	accountID, ok := c.Locals(middlewares.TokenAccountID).(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenAccountID)})
	}

	id, err := h.Resolver.Resolve(c.Context(), accountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(id)
}

// LinkAuth attach an external auth uid as the canonical chat id
// @Summary Link an external auth uid
// @Description Makes the auth uid the canonical chat id, history kept under a previously generated id is folded onto it on the next messaging request
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body object true "auth_uid"
// @Success 200 {object} string "identity"
// @Failure 400 {object} string "bad request"
// @Failure 401 {object} string "not signed in"
// @Router /identity/auth [post]
func (h *IdentityHandler) LinkAuth(c *fiber.Ctx) error {
	type request struct {
		AuthUID string `json:"auth_uid"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	accountID, ok := c.Locals(middlewares.TokenAccountID).(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenAccountID)})
	}

	if err := h.Usecase.LinkAuthUID(c.Context(), accountID, req.AuthUID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	id, err := h.Resolver.Resolve(c.Context(), accountID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	logger.Log.Info("auth uid linked", zap.String("accountID", accountID), zap.String("chatID", id.ID))
	return c.JSON(fiber.Map{"message": "auth linked", "identity": id})
}

// LinkVendor bind the operator account to a vendor record
// @Summary Link a vendor operator
// @Description Stores the operator uid on the vendor so resolves stop relying on the legacy name match
// @Tags Identity
// @Accept json
// @Produce json
// @Param request body object true "vendor_id"
// @Success 200 {object} string "link success"
// @Failure 400 {object} string "bad request"
// @Failure 404 {object} string "vendor not found"
// @Router /identity/vendor/link [post]
func (h *IdentityHandler) LinkVendor(c *fiber.Ctx) error {
	type request struct {
		VendorID string `json:"vendor_id"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.VendorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vendor_id is required"})
	}

	accountID, ok := c.Locals(middlewares.TokenAccountID).(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": fmt.Sprintf("c.Locals(%s) is nil", middlewares.TokenAccountID)})
	}

	account, err := h.Usecase.FindAccount(c.Context(), &domain.AccountQuery{AccountID: &accountID})
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	if account.Role != domain.RoleVendorOperator {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "only vendor operators can link a vendor"})
	}

	operatorUID := account.AuthUID
	if operatorUID == "" {
		operatorUID = account.AccountID
	}

	if err := h.Directory.LinkOperator(c.Context(), req.VendorID, operatorUID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	logger.Log.Info("vendor linked", zap.String("accountID", accountID), zap.String("vendorID", req.VendorID))
	return c.JSON(fiber.Map{"message": "link success"})
}
