package compose

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xyz-asif/nexcrm/internal/features/comments"
	"github.com/xyz-asif/nexcrm/internal/mention"
	"github.com/xyz-asif/nexcrm/internal/pkg/cache"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
)

var (
	ErrSessionNotFound   = fmt.Errorf("compose session: %w", apperrors.ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("mention candidate: %w", apperrors.ErrNotFound)
	ErrNotSessionOwner   = fmt.Errorf("compose session: %w", apperrors.ErrForbidden)
	ErrKindMismatch      = fmt.Errorf("mention kind mismatch: %w", mention.ErrInvalidState)
)

// CandidateSource supplies one mention pool.
type CandidateSource interface {
	Candidates(ctx context.Context) ([]mention.Candidate, error)
}

type CommentCreator interface {
	Create(ctx context.Context, author comments.Author, in comments.CreateInput) (*comments.Comment, error)
}

type Config struct {
	Capacity     int
	TTL          time.Duration
	PopupLimit   int
	ClientPrefix string
	Lenient      bool
}

type Service struct {
	cfg        Config
	sessions   *cache.Store[string, *Session]
	developers CandidateSource
	clients    CandidateSource
	comments   CommentCreator
	log        zerolog.Logger
	now        func() time.Time
	newID      func() string
}

type ServiceOption func(*Service)

// WithClock drives session timestamps and idle expiry.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) { s.newID = fn }
}

func NewService(cfg Config, developers, clients CandidateSource, creator CommentCreator, log zerolog.Logger, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		cfg:        cfg,
		developers: developers,
		clients:    clients,
		comments:   creator,
		log:        log.With().Str("component", "compose").Logger(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	sessions, err := cache.New[string, *Session](cfg.Capacity, cfg.TTL,
		cache.WithClock[string, *Session](s.now),
		cache.WithEvictHook[string, *Session](func(id string, sess *Session) {
			s.log.Info().Str("sessionId", id).Str("taskId", sess.TaskID).Msg("compose session evicted")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("creating session store: %w", err)
	}
	s.sessions = sessions
	return s, nil
}

// Open starts a session for the task with fresh developer and client pools.
// A pool that fails to load is logged and left empty.
func (s *Service) Open(ctx context.Context, taskID string, author comments.Author) (*Session, mention.State, error) {
	if taskID == "" {
		return nil, mention.State{}, fmt.Errorf("%w: taskId is required", apperrors.ErrValidation)
	}

	opts := []mention.Option{
		mention.WithDetector(mention.NewDetector(mention.WithClientPrefix(s.cfg.ClientPrefix))),
		mention.WithPopupLimit(s.cfg.PopupLimit),
	}
	if s.cfg.Lenient {
		opts = append(opts, mention.WithLenient(s.log))
	}
	composer := mention.NewComposer(opts...)
	s.loadPool(ctx, composer, mention.KindUser, s.developers)
	s.loadPool(ctx, composer, mention.KindClient, s.clients)

	sess := &Session{
		ID:        s.newID(),
		TaskID:    taskID,
		Author:    author,
		CreatedAt: s.now(),
		composer:  composer,
	}
	s.sessions.Put(sess.ID, sess)

	s.log.Debug().Str("sessionId", sess.ID).Str("taskId", taskID).Msg("compose session opened")
	return sess, composer.State(), nil
}

func (s *Service) loadPool(ctx context.Context, composer *mention.Composer, kind mention.Kind, src CandidateSource) {
	pool, err := src.Candidates(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("kind", string(kind)).Msg("loading mention pool failed")
		pool = nil
	}
	composer.SetPool(kind, pool)
}

// with runs fn on the caller's session while holding its lock.
func (s *Service) with(sessionID string, author comments.Author, fn func(*Session) error) error {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if sess.Author.ID != author.ID {
		return ErrNotSessionOwner
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(sess)
}

func (s *Service) State(sessionID string, author comments.Author) (mention.State, error) {
	var state mention.State
	err := s.with(sessionID, author, func(sess *Session) error {
		state = sess.composer.State()
		return nil
	})
	return state, err
}

func (s *Service) UpdateText(sessionID string, author comments.Author, text string, caret int) (mention.State, error) {
	var state mention.State
	err := s.with(sessionID, author, func(sess *Session) error {
		state = sess.composer.OnTextChange(text, caret)
		return nil
	})
	return state, err
}

// Select inserts the candidate identified by kind and id at the active
// query. A candidate from the other namespace than the query's is rejected
// with ErrKindMismatch.
func (s *Service) Select(sessionID string, author comments.Author, kind mention.Kind, id string) (mention.Edit, mention.State, error) {
	var (
		edit  mention.Edit
		state mention.State
	)
	err := s.with(sessionID, author, func(sess *Session) error {
		if !kind.Valid() {
			return fmt.Errorf("%w: %q", mention.ErrUnknownKind, kind)
		}
		candidate, ok := sess.composer.Index().Lookup(kind, id)
		if !ok {
			return ErrCandidateNotFound
		}
		if q := sess.composer.State().MentionQuery; q != nil && q.Kind != kind {
			return ErrKindMismatch
		}
		var err error
		edit, err = sess.composer.SelectCandidate(candidate)
		if err != nil {
			return err
		}
		state = sess.composer.State()
		return nil
	})
	return edit, state, err
}

// Submit stores the composed comment and resets the session. On failure
// the draft is kept so the author can retry.
func (s *Service) Submit(ctx context.Context, sessionID string, author comments.Author) (*comments.Comment, error) {
	var created *comments.Comment
	err := s.with(sessionID, author, func(sess *Session) error {
		sub, err := sess.composer.Submission()
		if err != nil {
			return err
		}

		created, err = s.comments.Create(ctx, sess.Author, comments.CreateInput{
			TaskID:             sess.TaskID,
			Content:            sub.Content,
			MentionedUserIDs:   sub.MentionedUserIDs,
			MentionedClientIDs: sub.MentionedClientIDs,
		})
		if err != nil {
			return err
		}

		sess.composer.Reset()
		return nil
	})
	return created, err
}

// Cancel discards the draft and closes the session.
func (s *Service) Cancel(sessionID string, author comments.Author) error {
	err := s.with(sessionID, author, func(sess *Session) error {
		sess.composer.Reset()
		return nil
	})
	if err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	return nil
}

// Sweep drops idle sessions.
func (s *Service) Sweep() int {
	return s.sessions.Sweep()
}

// StartSweeper runs Sweep every interval until ctx is done.
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					s.log.Debug().Int("removed", n).Msg("swept idle compose sessions")
				}
			}
		}
	}()
}
