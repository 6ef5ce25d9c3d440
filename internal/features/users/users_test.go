package users

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/nexcrm/internal/mention"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	users []User
}

func (f *fakeStore) ListByRole(_ context.Context, role string) ([]User, error) {
	out := []User{}
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]User, error) {
	out := []User{}
	for _, id := range ids {
		for _, u := range f.users {
			if u.ID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func fixture() (*fakeStore, User, User, User) {
	alice := User{ID: primitive.NewObjectID(), Username: "Alice", Role: RoleDeveloper}
	bob := User{ID: primitive.NewObjectID(), Username: "bob", Role: RoleDeveloper}
	mgr := User{ID: primitive.NewObjectID(), Username: "marie", Role: RoleManager}
	return &fakeStore{users: []User{alice, bob, mgr}}, alice, bob, mgr
}

func TestService_CandidatesAreDevelopers(t *testing.T) {
	store, alice, bob, _ := fixture()
	svc := NewService(store)

	got, err := svc.Candidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []mention.Candidate{
		{ID: alice.ID.Hex(), Kind: mention.KindUser, DisplayToken: "Alice"},
		{ID: bob.ID.Hex(), Kind: mention.KindUser, DisplayToken: "bob"},
	}, got)
}

func TestService_Resolve(t *testing.T) {
	store, alice, bob, _ := fixture()
	svc := NewService(store)
	missing := primitive.NewObjectID().Hex()

	found, unknown, err := svc.Resolve(context.Background(),
		[]string{bob.ID.Hex(), "not-hex", alice.ID.Hex(), bob.ID.Hex(), missing})
	require.NoError(t, err)

	require.Len(t, found, 2)
	require.Equal(t, "bob", found[0].Username)
	require.Equal(t, "Alice", found[1].Username)
	require.Equal(t, []string{"not-hex", missing}, unknown)
}

func newRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(NewService(store)), func(c *gin.Context) { c.Next() })
	return r
}

func TestHandler_ListDevelopers(t *testing.T) {
	store, _, _, _ := fixture()
	r := newRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/users/developers", nil))

	require.Equal(t, 200, w.Code)
	var body struct {
		Success bool           `json:"success"`
		Data    []UserResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Data, 2)
}

func TestHandler_GetUser(t *testing.T) {
	store, alice, _, _ := fixture()
	r := newRouter(store)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/users/"+alice.ID.Hex(), nil))
	require.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/users/"+primitive.NewObjectID().Hex(), nil))
	require.Equal(t, 404, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/users/zzz", nil))
	require.Equal(t, 400, w.Code)
}
