package compose

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/xyz-asif/nexcrm/internal/features/comments"
	"github.com/xyz-asif/nexcrm/internal/mention"
	"github.com/xyz-asif/nexcrm/internal/middleware"
	"github.com/xyz-asif/nexcrm/internal/pkg/response"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Handler struct {
	service *Service
	log     zerolog.Logger
}

func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

func currentAuthor(c *gin.Context) (comments.Author, bool) {
	userID, username, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required", "UNAUTHORIZED")
		return comments.Author{}, false
	}
	id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		response.Unauthorized(c, "Invalid user identity", "AUTH_INVALID_TOKEN")
		return comments.Author{}, false
	}
	return comments.Author{ID: id, Username: username}, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrKindMismatch):
		response.Conflict(c, "Candidate does not match the mention being typed", "KIND_MISMATCH")
	case errors.Is(err, mention.ErrInvalidState):
		response.Conflict(c, "No mention is being typed", "INVALID_STATE")
	case errors.Is(err, mention.ErrEmptyContent):
		response.ValidationError(c, "Comment content is empty", "EMPTY_CONTENT")
	case errors.Is(err, mention.ErrUnknownKind):
		response.BadRequest(c, "Unknown mention kind", "INVALID_KIND")
	case errors.Is(err, ErrSessionNotFound):
		response.NotFound(c, "Compose session not found", "SESSION_NOT_FOUND")
	case errors.Is(err, ErrCandidateNotFound):
		response.NotFound(c, "Mention candidate not found", "CANDIDATE_NOT_FOUND")
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, "Compose session belongs to another user", "FORBIDDEN")
	case errors.Is(err, apperrors.ErrValidation):
		response.ValidationFailed(c, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("compose request failed")
		response.InternalServerError(c, "Failed to process compose request", "COMPOSE_FAILED")
	}
}

// OpenSession godoc
// @Summary Open a compose session
// @Description Start a comment draft for a task with the developer and client mention pools loaded
// @Tags compose
// @Produce json
// @Security BearerAuth
// @Param taskId path string true "Task ID"
// @Success 201 {object} response.APIResponse{data=SessionResponse}
// @Failure 401 {object} response.APIResponse
// @Failure 429 {object} response.APIResponse
// @Router /tasks/{taskId}/compose [post]
func (h *Handler) OpenSession(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	sess, state, err := h.service.Open(c.Request.Context(), c.Param("taskId"), author)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, SessionResponse{SessionID: sess.ID, TaskID: sess.TaskID, State: state})
}

// GetState godoc
// @Summary Get compose state
// @Tags compose
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 200 {object} response.APIResponse{data=mention.State}
// @Failure 404 {object} response.APIResponse
// @Router /compose/{sessionId} [get]
func (h *Handler) GetState(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	state, err := h.service.State(c.Param("sessionId"), author)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, state)
}

// UpdateText godoc
// @Summary Report a text change
// @Description Feed the current text and caret; returns the active query and popup
// @Tags compose
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body TextRequest true "Text and caret (rune offset)"
// @Success 200 {object} response.APIResponse{data=mention.State}
// @Failure 400 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /compose/{sessionId}/text [put]
func (h *Handler) UpdateText(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	state, err := h.service.UpdateText(c.Param("sessionId"), author, req.Text, req.Caret)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, state)
}

// SelectCandidate godoc
// @Summary Select a mention candidate
// @Tags compose
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Param request body SelectRequest true "Candidate kind and id"
// @Success 200 {object} response.APIResponse{data=SelectResponse}
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /compose/{sessionId}/select [post]
func (h *Handler) SelectCandidate(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindJSONError(c, err)
		return
	}

	edit, state, err := h.service.Select(c.Param("sessionId"), author, req.Kind, req.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, SelectResponse{Edit: edit, State: state})
}

// Submit godoc
// @Summary Submit the draft
// @Description Store the composed comment with its selected mentions and reset the draft
// @Tags compose
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 201 {object} response.APIResponse{data=comments.CommentResponse}
// @Failure 404 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /compose/{sessionId}/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	comment, err := h.service.Submit(c.Request.Context(), c.Param("sessionId"), author)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, comments.ToResponse(*comment))
}

// Cancel godoc
// @Summary Discard the draft
// @Tags compose
// @Security BearerAuth
// @Param sessionId path string true "Session ID"
// @Success 204
// @Failure 404 {object} response.APIResponse
// @Router /compose/{sessionId} [delete]
func (h *Handler) Cancel(c *gin.Context) {
	author, ok := currentAuthor(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Param("sessionId"), author); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}
