package clients

import (
	"context"

	"github.com/xyz-asif/nexcrm/internal/mention"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]Client, error) {
	return s.store.List(ctx)
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*Client, error) {
	return s.store.GetByID(ctx, id)
}

// Candidates is the client pool offered to the mention popup.
func (s *Service) Candidates(ctx context.Context) ([]mention.Candidate, error) {
	clients, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]mention.Candidate, 0, len(clients))
	for _, c := range clients {
		out = append(out, c.Candidate())
	}
	return out, nil
}

// Resolve behaves like users.Service.Resolve for client ids.
func (s *Service) Resolve(ctx context.Context, ids []string) (found []Client, unknown []string, err error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, perr := primitive.ObjectIDFromHex(id)
		if perr != nil {
			unknown = append(unknown, id)
			continue
		}
		oids = append(oids, oid)
	}

	clients, err := s.store.GetByIDs(ctx, oids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[primitive.ObjectID]Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	seen := make(map[primitive.ObjectID]bool, len(oids))
	for _, oid := range oids {
		if seen[oid] {
			continue
		}
		seen[oid] = true
		c, ok := byID[oid]
		if !ok {
			unknown = append(unknown, oid.Hex())
			continue
		}
		found = append(found, c)
	}
	return found, unknown, nil
}
