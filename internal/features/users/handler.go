package users

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/nexcrm/internal/pkg/response"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListDevelopers godoc
// @Summary List developers
// @Description Users with the DEVELOPER role, the pool offered to user mentions
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=[]UserResponse}
// @Failure 401 {object} response.APIResponse
// @Router /users/developers [get]
func (h *Handler) ListDevelopers(c *gin.Context) {
	devs, err := h.service.ListDevelopers(c.Request.Context())
	if err != nil {
		response.DatabaseError(c, "Failed to fetch developers")
		return
	}

	resp := make([]UserResponse, 0, len(devs))
	for _, u := range devs {
		resp = append(resp, ToResponse(u))
	}
	response.Success(c, resp)
}

// GetUser godoc
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.APIResponse{data=UserResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "User not found", "USER_NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to fetch user")
		return
	}

	response.Success(c, ToResponse(*user))
}
