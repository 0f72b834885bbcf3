package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fieldreport-auth/internal/api/dto"
	"github.com/spec-kit/fieldreport-auth/internal/auth"
	apperrors "github.com/spec-kit/fieldreport-auth/pkg/util"
)

// UsersHandler serves the authenticated caller's own resources.
type UsersHandler struct{}

// NewUsersHandler constructs handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing principal")
	}
	return c.JSON(fiber.Map{"result": dto.NewUserResponse(user)})
}
