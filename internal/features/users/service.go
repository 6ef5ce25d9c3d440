package users

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

func (s *Service) ListDevelopers(ctx context.Context) ([]User, error) {
	return s.store.ListByRole(ctx, RoleDeveloper)
}

func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// Candidates is the developer pool offered to the mention popup.
func (s *Service) Candidates(ctx context.Context) ([]mention.Candidate, error) {
	devs, err := s.ListDevelopers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]mention.Candidate, 0, len(devs))
	for _, u := range devs {
		out = append(out, u.Candidate())
	}
	return out, nil
}

// Resolve looks up ids given as hex strings. Found users keep the input
// order without duplicates; malformed or missing ids come back in unknown.
func (s *Service) Resolve(ctx context.Context, ids []string) (found []User, unknown []string, err error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, perr := primitive.ObjectIDFromHex(id)
		if perr != nil {
			unknown = append(unknown, id)
			continue
		}
		oids = append(oids, oid)
	}

	users, err := s.store.GetByIDs(ctx, oids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[primitive.ObjectID]User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	seen := make(map[primitive.ObjectID]bool, len(oids))
	for _, oid := range oids {
		if seen[oid] {
			continue
		}
		seen[oid] = true
		u, ok := byID[oid]
		if !ok {
			unknown = append(unknown, oid.Hex())
			continue
		}
		found = append(found, u)
	}
	return found, unknown, nil
}
