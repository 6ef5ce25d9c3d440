package comments

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/nexcrm/internal/mention"
	"github.com/xyz-asif/nexcrm/internal/middleware"
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

func currentAuthor(c *gin.Context) (Author, bool) {
	userID, username, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return Author{}, false
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Unauthorized(c, "Invalid user identity", "AUTH_INVALID_TOKEN")
		return Author{}, false
	}
	return Author{ID: id, Username: username}, true
}

// writeError maps service errors onto responses.
func writeError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		response.ValidationFailed(c, strings.TrimPrefix(err.Error(), apperrors.ErrValidation.Error()+": "))
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, notFoundMsg, "COMMENT_NOT_FOUND")
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, "Only the author can delete this comment", "FORBIDDEN")
	default:
		response.DatabaseError(c, "Failed to process comment")
	}
}

// CreateComment godoc
// @Summary Add comment to task
// @Description Create a comment with resolved user and client mentions
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} response.APIResponse{data=CommentResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	comment, err := h.service.Create(c.Request.Context(), author, CreateInput{
		TaskID:             req.TaskID,
		Content:            req.Content,
		MentionedUserIDs:   req.MentionedUserIDs,
		MentionedClientIDs: req.MentionedClientIDs,
	})
	if err != nil {
		writeError(c, err, "Comment not found")
		return
	}

	response.Created(c, ToResponse(*comment))
}

// GetComment godoc
// @Summary Get comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} response.APIResponse{data=CommentResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /comments/{id} [get]
func (h *Handler) GetComment(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid comment ID", "INVALID_ID")
		return
	}

	comment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Comment not found")
		return
	}

	response.Success(c, ToResponse(*comment))
}

// ListByTask godoc
// @Summary List a task's comments
// @Description Oldest first, each with its rendered segments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Success 200 {object} response.APIResponse{data=[]CommentResponse}
// @Router /comments/task/{taskId} [get]
func (h *Handler) ListByTask(c *gin.Context) {
	list, err := h.service.ListByTask(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		writeError(c, err, "Task not found")
		return
	}
	response.Success(c, ToResponses(list))
}

// ListByUser godoc
// @Summary List a user's comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} response.APIResponse{data=[]CommentResponse}
// @Failure 400 {object} response.APIResponse
// @Router /comments/user/{userId} [get]
func (h *Handler) ListByUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "Invalid user ID", "INVALID_ID")
		return
	}

	list, err := h.service.ListByAuthor(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err, "User not found")
		return
	}
	response.Success(c, ToResponses(list))
}

// DeleteComment godoc
// @Summary Delete comment
// @Tags comments
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 204
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid comment ID", "INVALID_ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, author.ID); err != nil {
		writeError(c, err, "Comment not found")
		return
	}

	response.NoContent(c)
}

// DeleteByTask godoc
// @Summary Delete a task's comments
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Success 200 {object} response.APIResponse{data=DeleteByTaskResponse}
// @Router /comments/task/{taskId} [delete]
func (h *Handler) DeleteByTask(c *gin.Context) {
	n, err := h.service.DeleteByTask(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		writeError(c, err, "Task not found")
		return
	}
	response.Success(c, DeleteByTaskResponse{DeletedCount: n})
}

// RenderPreview godoc
// @Summary Render comment segments
// @Description Split content into plain text and mention segments without storing anything
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RenderRequest true "Content and mention names"
// @Success 200 {object} response.APIResponse{data=RenderResponse}
// @Failure 400 {object} response.APIResponse
// @Router /comments/render [post]
func (h *Handler) RenderPreview(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	response.Success(c, RenderResponse{
		Segments: mention.Render(req.Content, req.MentionedUsernames, req.MentionedClientNames),
	})
}
