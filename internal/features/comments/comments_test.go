package comments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xyz-asif/nexcrm/internal/features/clients"
	"github.com/xyz-asif/nexcrm/internal/features/notifications"
	"github.com/xyz-asif/nexcrm/internal/features/users"
	"github.com/xyz-asif/nexcrm/internal/mention"
	apperrors "github.com/xyz-asif/nexcrm/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memStore struct {
	comments []Comment
}

func (m *memStore) Create(_ context.Context, c *Comment) error {
	c.ID = primitive.NewObjectID()
	m.comments = append(m.comments, *c)
	return nil
}

func (m *memStore) GetByID(_ context.Context, id primitive.ObjectID) (*Comment, error) {
	for _, c := range m.comments {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *memStore) ListByTask(_ context.Context, taskID string) ([]Comment, error) {
	out := []Comment{}
	for _, c := range m.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]Comment, error) {
	out := []Comment{}
	for _, c := range m.comments {
		if c.AuthorID == authorID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, c := range m.comments {
		if c.ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *memStore) DeleteByTask(_ context.Context, taskID string) (int64, error) {
	var kept []Comment
	var n int64
	for _, c := range m.comments {
		if c.TaskID == taskID {
			n++
			continue
		}
		kept = append(kept, c)
	}
	m.comments = kept
	return n, nil
}

type userDir map[string]users.User

func (d userDir) Resolve(_ context.Context, ids []string) ([]users.User, []string, error) {
	var found []users.User
	var unknown []string
	for _, id := range ids {
		if u, ok := d[id]; ok {
			found = append(found, u)
		} else {
			unknown = append(unknown, id)
		}
	}
	return found, unknown, nil
}

type clientDir map[string]clients.Client

func (d clientDir) Resolve(_ context.Context, ids []string) ([]clients.Client, []string, error) {
	var found []clients.Client
	var unknown []string
	for _, id := range ids {
		if c, ok := d[id]; ok {
			found = append(found, c)
		} else {
			unknown = append(unknown, id)
		}
	}
	return found, unknown, nil
}

type recordingNotifier struct {
	events []notifications.MentionEvent
	err    error
}

func (n *recordingNotifier) NotifyMentions(_ context.Context, ev notifications.MentionEvent) error {
	n.events = append(n.events, ev)
	return n.err
}

type fixture struct {
	store    *memStore
	notifier *recordingNotifier
	service  *Service
	logs     *bytes.Buffer
	author   Author
	alice    users.User
	acme     clients.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	prev := timeNow
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = prev })

	f := &fixture{
		store:    &memStore{},
		notifier: &recordingNotifier{},
		logs:     &bytes.Buffer{},
		author:   Author{ID: primitive.NewObjectID(), Username: "marie"},
		alice:    users.User{ID: primitive.NewObjectID(), Username: "Alice"},
		acme:     clients.Client{ID: primitive.NewObjectID(), Nom: "Acme"},
	}
	f.service = NewService(
		f.store,
		userDir{f.alice.ID.Hex(): f.alice, f.author.ID.Hex(): {ID: f.author.ID, Username: "marie"}},
		clientDir{f.acme.ID.Hex(): f.acme},
		f.notifier,
		zerolog.New(f.logs),
	)
	return f
}

func TestService_CreateResolvesMentionsAndNotifies(t *testing.T) {
	f := newFixture(t)

	comment, err := f.service.Create(context.Background(), f.author, CreateInput{
		TaskID:             "T-7",
		Content:            "  ping @Alice about @Acme  ",
		MentionedUserIDs:   []string{f.alice.ID.Hex(), "ghost", f.author.ID.Hex()},
		MentionedClientIDs: []string{f.acme.ID.Hex()},
	})
	require.NoError(t, err)

	require.Equal(t, "ping @Alice about @Acme", comment.Content)
	require.Equal(t, []string{"Alice", "marie"}, comment.MentionedUsernames)
	require.Equal(t, []string{"Acme"}, comment.MentionedClientNames)
	require.Equal(t, []primitive.ObjectID{f.acme.ID}, comment.MentionedClientIDs)
	require.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), comment.CreatedAt)
	require.Len(t, f.store.comments, 1)

	require.Len(t, f.notifier.events, 1)
	ev := f.notifier.events[0]
	require.Equal(t, f.author.ID, ev.SenderID)
	require.Equal(t, comment.ID, ev.CommentID)
	require.Equal(t, "T-7", ev.TaskID)
	require.Equal(t, []primitive.ObjectID{f.alice.ID, f.author.ID}, ev.RecipientIDs)

	require.Contains(t, f.logs.String(), "skipping unknown mentions")
	require.Contains(t, f.logs.String(), "ghost")
}

func TestService_CreateWithoutMentionsSkipsNotifier(t *testing.T) {
	f := newFixture(t)

	comment, err := f.service.Create(context.Background(), f.author, CreateInput{TaskID: "T-1", Content: "plain"})
	require.NoError(t, err)
	require.Empty(t, comment.MentionedUserIDs)
	require.NotNil(t, comment.MentionedUsernames)
	require.Empty(t, f.notifier.events)
}

func TestService_CreateSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("insert failed")

	_, err := f.service.Create(context.Background(), f.author, CreateInput{
		TaskID:           "T-1",
		Content:          "@Alice",
		MentionedUserIDs: []string{f.alice.ID.Hex()},
	})
	require.NoError(t, err)
	require.Contains(t, f.logs.String(), "mention notifications failed")
}

func TestService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	for _, in := range []CreateInput{
		{TaskID: "T-1", Content: "   "},
		{TaskID: "", Content: "hi"},
		{TaskID: "T-1", Content: strings.Repeat("é", MaxContentLength+1)},
	} {
		_, err := f.service.Create(context.Background(), f.author, in)
		require.ErrorIs(t, err, apperrors.ErrValidation)
	}

	_, err := f.service.Create(context.Background(), f.author, CreateInput{
		TaskID: "T-1", Content: strings.Repeat("é", MaxContentLength),
	})
	require.NoError(t, err)
}

func TestService_DeleteOnlyByAuthor(t *testing.T) {
	f := newFixture(t)
	comment, err := f.service.Create(context.Background(), f.author, CreateInput{TaskID: "T-1", Content: "hi"})
	require.NoError(t, err)

	err = f.service.Delete(context.Background(), comment.ID, f.alice.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.service.Delete(context.Background(), comment.ID, f.author.ID))
	_, err = f.service.Get(context.Background(), comment.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestToResponse_RendersSegments(t *testing.T) {
	resp := ToResponse(Comment{
		Content:              "Thanks @bob and @Acme",
		MentionedUsernames:   []string{"bob"},
		MentionedClientNames: []string{"Acme"},
	})

	want := []mention.Segment{
		mention.TextSegment("Thanks "),
		mention.MentionSegment("bob", mention.KindUser),
		mention.TextSegment(" and "),
		mention.MentionSegment("Acme", mention.KindClient),
	}
	if diff := cmp.Diff(want, resp.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}

func newRouter(f *fixture, userID primitive.ObjectID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := func(c *gin.Context) {
		c.Set("userID", userID.Hex())
		c.Set("username", f.author.Username)
		c.Next()
	}
	RegisterRoutes(r.Group("/api/v1"), NewHandler(f.service), auth)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndListByTask(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f, f.author.ID)

	w := doJSON(r, "POST", "/api/v1/comments",
		`{"taskId":"T-9","content":"hey @Alice","mentionedUserIds":["`+f.alice.ID.Hex()+`"]}`)
	require.Equal(t, 201, w.Code)

	var created struct {
		Data CommentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "T-9", created.Data.TaskID)
	require.Equal(t, "marie", created.Data.AuthorUsername)
	require.Len(t, created.Data.Segments, 2)
	require.Equal(t, mention.SegmentMention, created.Data.Segments[1].Type)

	w = doJSON(r, "GET", "/api/v1/comments/task/T-9", "")
	require.Equal(t, 200, w.Code)
	var list struct {
		Data []CommentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)

	w = doJSON(r, "GET", "/api/v1/comments/user/"+f.author.ID.Hex(), "")
	require.Equal(t, 200, w.Code)

	w = doJSON(r, "GET", "/api/v1/comments/"+created.Data.ID.Hex(), "")
	require.Equal(t, 200, w.Code)
}

func TestHandler_CreateRejectsBlankContent(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f, f.author.ID)

	w := doJSON(r, "POST", "/api/v1/comments", `{"taskId":"T-9","content":"   "}`)
	require.Equal(t, 422, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "VALIDATION_FAILED", body["code"])
	require.Equal(t, "content is required", body["message"])

	w = doJSON(r, "POST", "/api/v1/comments", `{"taskId":`)
	require.Equal(t, 400, w.Code)
}

func TestHandler_DeleteRules(t *testing.T) {
	f := newFixture(t)
	comment, err := f.service.Create(context.Background(), f.author, CreateInput{TaskID: "T-1", Content: "hi"})
	require.NoError(t, err)

	w := doJSON(newRouter(f, f.alice.ID), "DELETE", "/api/v1/comments/"+comment.ID.Hex(), "")
	require.Equal(t, 403, w.Code)

	w = doJSON(newRouter(f, f.author.ID), "DELETE", "/api/v1/comments/"+comment.ID.Hex(), "")
	require.Equal(t, 204, w.Code)

	w = doJSON(newRouter(f, f.author.ID), "DELETE", "/api/v1/comments/"+comment.ID.Hex(), "")
	require.Equal(t, 404, w.Code)
}

func TestHandler_DeleteByTask(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.service.Create(context.Background(), f.author, CreateInput{TaskID: "T-1", Content: "hi"})
		require.NoError(t, err)
	}

	w := doJSON(newRouter(f, f.author.ID), "DELETE", "/api/v1/comments/task/T-1", "")
	require.Equal(t, 200, w.Code)
	var body struct {
		Data DeleteByTaskResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, int64(3), body.Data.DeletedCount)
}

func TestHandler_RenderPreview(t *testing.T) {
	f := newFixture(t)
	r := newRouter(f, f.author.ID)

	w := doJSON(r, "POST", "/api/v1/comments/render",
		`{"content":"<b>@bob</b>","mentionedUsernames":["bob"]}`)
	require.Equal(t, 200, w.Code)

	var body struct {
		Data RenderResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	want := []mention.Segment{
		mention.TextSegment("<b>"),
		mention.MentionSegment("bob", mention.KindUser),
		mention.TextSegment("</b>"),
	}
	if diff := cmp.Diff(want, body.Data.Segments); diff != "" {
		t.Fatalf("segments mismatch (-want +got):\n%s", diff)
	}
}
