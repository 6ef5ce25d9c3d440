package notifications

import (
	"context"

	"github.com/xyz-asif/nexcrm/internal/pkg/pagination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// NotifyMentions creates one MENTION notification per distinct recipient.
// The sender never notifies themselves.
func (s *Service) NotifyMentions(ctx context.Context, ev MentionEvent) error {
	seen := make(map[primitive.ObjectID]bool, len(ev.RecipientIDs))
	var notifications []Notification

	for _, recipient := range ev.RecipientIDs {
		if recipient == ev.SenderID || seen[recipient] {
			continue
		}
		seen[recipient] = true

		notifications = append(notifications, Notification{
			RecipientID:    recipient,
			SenderID:       ev.SenderID,
			SenderUsername: ev.SenderUsername,
			Type:           TypeMention,
			EntityType:     EntityComment,
			EntityID:       ev.CommentID,
			TaskID:         ev.TaskID,
			Message:        ev.SenderUsername + " mentioned you in a comment",
			Preview:        truncate(ev.Content, 100),
		})
	}

	return s.store.CreateMany(ctx, notifications)
}

func (s *Service) List(ctx context.Context, recipientID primitive.ObjectID, unreadOnly bool, page *pagination.PaginationRequest) ([]Notification, int64, error) {
	return s.store.ListForRecipient(ctx, recipientID, unreadOnly, page.Offset(), page.Limit)
}

func (s *Service) UnreadCount(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.store.CountUnread(ctx, recipientID)
}

func (s *Service) MarkRead(ctx context.Context, id, recipientID primitive.ObjectID) error {
	return s.store.MarkAsRead(ctx, id, recipientID)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID primitive.ObjectID) (int64, error) {
	return s.store.MarkAllAsRead(ctx, recipientID)
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
