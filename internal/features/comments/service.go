package comments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/xyz-asif/nexcrm/internal/features/clients"
	"github.com/xyz-asif/nexcrm/internal/features/notifications"
	"github.com/xyz-asif/nexcrm/internal/features/users"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var timeNow = time.Now

type UserResolver interface {
	Resolve(ctx context.Context, ids []string) ([]users.User, []string, error)
}

type ClientResolver interface {
	Resolve(ctx context.Context, ids []string) ([]clients.Client, []string, error)
}

type MentionNotifier interface {
	NotifyMentions(ctx context.Context, ev notifications.MentionEvent) error
}

type Service struct {
	store    Store
	users    UserResolver
	clients  ClientResolver
	notifier MentionNotifier
	log      zerolog.Logger
}

func NewService(store Store, users UserResolver, clients ClientResolver, notifier MentionNotifier, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		users:    users,
		clients:  clients,
		notifier: notifier,
		log:      log.With().Str("component", "comments").Logger(),
	}
}

// Create validates and stores a comment, then notifies every mentioned
// user except the author. Unknown mention ids are dropped. A failed
// notification does not fail the comment.
func (s *Service) Create(ctx context.Context, author Author, in CreateInput) (*Comment, error) {
	if err := ValidateCreateInput(&in); err != nil {
		return nil, err
	}

	mentionedUsers, unknownUsers, err := s.users.Resolve(ctx, in.MentionedUserIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving mentioned users: %w", err)
	}
	mentionedClients, unknownClients, err := s.clients.Resolve(ctx, in.MentionedClientIDs)
	if err != nil {
		return nil, fmt.Errorf("resolving mentioned clients: %w", err)
	}
	if len(unknownUsers) > 0 || len(unknownClients) > 0 {
		s.log.Warn().
			Strs("users", unknownUsers).
			Strs("clients", unknownClients).
			Str("taskId", in.TaskID).
			Msg("skipping unknown mentions")
	}

	comment := &Comment{
		TaskID:               in.TaskID,
		AuthorID:             author.ID,
		AuthorUsername:       author.Username,
		Content:              in.Content,
		MentionedUserIDs:     []primitive.ObjectID{},
		MentionedClientIDs:   []primitive.ObjectID{},
		MentionedUsernames:   []string{},
		MentionedClientNames: []string{},
		CreatedAt:            timeNow(),
	}
	for _, u := range mentionedUsers {
		comment.MentionedUserIDs = append(comment.MentionedUserIDs, u.ID)
		comment.MentionedUsernames = append(comment.MentionedUsernames, u.Username)
	}
	for _, c := range mentionedClients {
		comment.MentionedClientIDs = append(comment.MentionedClientIDs, c.ID)
		comment.MentionedClientNames = append(comment.MentionedClientNames, c.Nom)
	}

	if err := s.store.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("saving comment: %w", err)
	}

	if len(comment.MentionedUserIDs) > 0 {
		err := s.notifier.NotifyMentions(ctx, notifications.MentionEvent{
			SenderID:       author.ID,
			SenderUsername: author.Username,
			CommentID:      comment.ID,
			TaskID:         comment.TaskID,
			Content:        comment.Content,
			RecipientIDs:   comment.MentionedUserIDs,
		})
		if err != nil {
			s.log.Error().Err(err).Str("commentId", comment.ID.Hex()).Msg("mention notifications failed")
		}
	}

	return comment, nil
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Comment, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) ListByTask(ctx context.Context, taskID string) ([]Comment, error) {
	return s.store.ListByTask(ctx, taskID)
}

func (s *Service) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]Comment, error) {
	return s.store.ListByAuthor(ctx, authorID)
}

// Delete removes a comment. Only its author may delete it.
func (s *Service) Delete(ctx context.Context, id, requesterID primitive.ObjectID) error {
	comment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != requesterID {
		return apperrors.ErrForbidden
	}
	return s.store.Delete(ctx, id)
}

// DeleteByTask removes a task's whole thread, used when the task is deleted.
func (s *Service) DeleteByTask(ctx context.Context, taskID string) (int64, error) {
	return s.store.DeleteByTask(ctx, taskID)
}
