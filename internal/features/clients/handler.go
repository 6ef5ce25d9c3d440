package clients

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

// ListClients godoc
// @Summary List clients
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=[]Client}
// @Failure 401 {object} response.APIResponse
// @Router /clients [get]
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.service.List(c.Request.Context())
	if err != nil {
		response.DatabaseError(c, "Failed to fetch clients")
		return
	}
	response.Success(c, clients)
}

// GetClient godoc
// @Summary Get client
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} response.APIResponse{data=Client}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /clients/{id} [get]
func (h *Handler) GetClient(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid client ID", "INVALID_ID")
		return
	}

	client, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			response.NotFound(c, "Client not found", "CLIENT_NOT_FOUND")
			return
		}
		response.DatabaseError(c, "Failed to fetch client")
		return
	}
	response.Success(c, client)
}
