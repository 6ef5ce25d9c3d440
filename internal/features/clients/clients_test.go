package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/nexcrm/internal/mention"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	clients []Client
	err     error
}

func (f *fakeStore) List(context.Context) ([]Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.clients, nil
}

func (f *fakeStore) GetByID(_ context.Context, id primitive.ObjectID) (*Client, error) {
	for _, c := range f.clients {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeStore) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]Client, error) {
	out := []Client{}
	for _, id := range ids {
		for _, c := range f.clients {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func TestService_Candidates(t *testing.T) {
	acme := Client{ID: primitive.NewObjectID(), Nom: "Acme"}
	svc := NewService(&fakeStore{clients: []Client{acme}})

	got, err := svc.Candidates(context.Background())
	require.NoError(t, err)
	require.Equal(t, []mention.Candidate{{ID: acme.ID.Hex(), Kind: mention.KindClient, DisplayToken: "Acme"}}, got)
}

func TestService_CandidatesPropagatesError(t *testing.T) {
	svc := NewService(&fakeStore{err: errors.New("down")})

	_, err := svc.Candidates(context.Background())
	require.Error(t, err)
}

func TestService_Resolve(t *testing.T) {
	acme := Client{ID: primitive.NewObjectID(), Nom: "Acme"}
	svc := NewService(&fakeStore{clients: []Client{acme}})

	found, unknown, err := svc.Resolve(context.Background(), []string{acme.ID.Hex(), "bad"})
	require.NoError(t, err)
	require.Equal(t, []Client{acme}, found)
	require.Equal(t, []string{"bad"}, unknown)
}

func TestHandler_Routes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	acme := Client{ID: primitive.NewObjectID(), Nom: "Acme", Entreprise: "Acme SA"}
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(NewService(&fakeStore{clients: []Client{acme}})), func(c *gin.Context) { c.Next() })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/clients", nil))
	require.Equal(t, 200, w.Code)
	var body struct {
		Data []Client `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "Acme SA", body.Data[0].Entreprise)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/clients/"+primitive.NewObjectID().Hex(), nil))
	require.Equal(t, 404, w.Code)
}
