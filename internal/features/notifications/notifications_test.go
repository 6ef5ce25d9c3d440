package notifications

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/nexcrm/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memStore struct {
	items []Notification
}

func (m *memStore) CreateMany(_ context.Context, ns []Notification) error {
	for _, n := range ns {
		n.ID = primitive.NewObjectID()
		m.items = append(m.items, n)
	}
	return nil
}

func (m *memStore) ListForRecipient(_ context.Context, recipientID primitive.ObjectID, unreadOnly bool, offset, limit int) ([]Notification, int64, error) {
	var matched []Notification
	for _, n := range m.items {
		if n.RecipientID == recipientID && (!unreadOnly || !n.IsRead) {
			matched = append(matched, n)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return !matched[i].IsRead && matched[j].IsRead })
	total := int64(len(matched))
	if offset >= len(matched) {
		return []Notification{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *memStore) CountUnread(_ context.Context, recipientID primitive.ObjectID) (int64, error) {
	var n int64
	for _, it := range m.items {
		if it.RecipientID == recipientID && !it.IsRead {
			n++
		}
	}
	return n, nil
}

func (m *memStore) MarkAsRead(_ context.Context, id, recipientID primitive.ObjectID) error {
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].RecipientID == recipientID {
			m.items[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) MarkAllAsRead(_ context.Context, recipientID primitive.ObjectID) (int64, error) {
	var n int64
	for i := range m.items {
		if m.items[i].RecipientID == recipientID && !m.items[i].IsRead {
			m.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func TestNotifyMentions_SkipsSenderAndDuplicates(t *testing.T) {
	store := &memStore{}
	svc := NewService(store)
	sender := primitive.NewObjectID()
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()

	err := svc.NotifyMentions(context.Background(), MentionEvent{
		SenderID:       sender,
		SenderUsername: "marie",
		CommentID:      primitive.NewObjectID(),
		TaskID:         "42",
		Content:        strings.Repeat("x", 150),
		RecipientIDs:   []primitive.ObjectID{alice, sender, bob, alice},
	})
	require.NoError(t, err)

	require.Len(t, store.items, 2)
	require.Equal(t, alice, store.items[0].RecipientID)
	require.Equal(t, bob, store.items[1].RecipientID)
	n := store.items[0]
	require.Equal(t, TypeMention, n.Type)
	require.Equal(t, EntityComment, n.EntityType)
	require.Equal(t, "marie mentioned you in a comment", n.Message)
	require.Equal(t, "42", n.TaskID)
	require.Len(t, []rune(n.Preview), 103)
}

func TestNotifyMentions_NoRecipients(t *testing.T) {
	store := &memStore{}
	sender := primitive.NewObjectID()

	err := NewService(store).NotifyMentions(context.Background(), MentionEvent{
		SenderID:     sender,
		RecipientIDs: []primitive.ObjectID{sender},
	})
	require.NoError(t, err)
	require.Empty(t, store.items)
}

func TestValidateNotificationListQuery(t *testing.T) {
	q := NotificationListQuery{Page: 0, Limit: 1000}
	page := ValidateNotificationListQuery(&q)
	require.Equal(t, 1, page.Page)
	require.Equal(t, pagination.MaxLimit, page.Limit)
}

func newRouter(store Store, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set("userID", userID.Hex())
		c.Set("username", "alice")
		c.Next()
	}
	RegisterRoutes(r.Group("/api/v1"), NewHandler(NewService(store)), auth)
	return r
}

func TestHandler_ListCountAndMarkRead(t *testing.T) {
	alice := primitive.NewObjectID()
	other := primitive.NewObjectID()
	store := &memStore{}
	svc := NewService(store)
	require.NoError(t, svc.NotifyMentions(context.Background(), MentionEvent{
		SenderID: other, SenderUsername: "bob", RecipientIDs: []primitive.ObjectID{alice},
	}))
	require.NoError(t, svc.NotifyMentions(context.Background(), MentionEvent{
		SenderID: other, SenderUsername: "bob", RecipientIDs: []primitive.ObjectID{alice},
	}))
	r := newRouter(store, alice)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notifications?limit=1", nil))
	require.Equal(t, 200, w.Code)
	var page struct {
		Data struct {
			Items []Notification `json:"items"`
			Total int64          `json:"total"`
			Limit int            `json:"limit"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data.Items, 1)
	require.Equal(t, int64(2), page.Data.Total)
	require.Equal(t, 1, page.Data.Limit)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PATCH", "/api/v1/notifications/"+store.items[0].ID.Hex()+"/read", nil))
	require.Equal(t, 200, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notifications/unread-count", nil))
	var count struct {
		Data UnreadCountResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	require.Equal(t, int64(1), count.Data.UnreadCount)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PATCH", "/api/v1/notifications/read-all", nil))
	var all struct {
		Data MarkAllReadResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Equal(t, int64(1), all.Data.MarkedCount)
}

func TestHandler_MarkReadNotOwned(t *testing.T) {
	alice := primitive.NewObjectID()
	store := &memStore{}
	require.NoError(t, NewService(store).NotifyMentions(context.Background(), MentionEvent{
		SenderID: primitive.NewObjectID(), RecipientIDs: []primitive.ObjectID{primitive.NewObjectID()},
	}))
	r := newRouter(store, alice)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PATCH", "/api/v1/notifications/"+store.items[0].ID.Hex()+"/read", nil))
	require.Equal(t, 404, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PATCH", "/api/v1/notifications/nope/read", nil))
	require.Equal(t, 400, w.Code)
}

func TestHandler_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"), NewHandler(NewService(&memStore{})), func(c *gin.Context) { c.Next() })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/notifications/unread-count", nil))
	require.Equal(t, 401, w.Code)
}
