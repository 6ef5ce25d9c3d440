package comments

import (
	"fmt"
	"strings"

	"github.com/xyz-asif/nexcrm/internal/pkg/validator"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
)

// ValidateCreateInput trims the content in place, checks its length and
// normalizes the mention id lists.
func ValidateCreateInput(in *CreateInput) error {
	in.Content = strings.TrimSpace(in.Content)
	in.TaskID = strings.TrimSpace(in.TaskID)
	in.MentionedUserIDs = validator.NormalizeIDs(in.MentionedUserIDs)
	in.MentionedClientIDs = validator.NormalizeIDs(in.MentionedClientIDs)

	if in.TaskID == "" {
		return fmt.Errorf("%w: taskId is required", apperrors.ErrValidation)
	}
	if in.Content == "" {
		return fmt.Errorf("%w: content is required", apperrors.ErrValidation)
	}
	if !validator.WithinLength(in.Content, MaxContentLength) {
		return fmt.Errorf("%w: content must be %d characters or less", apperrors.ErrValidation, MaxContentLength)
	}
	return nil
}
