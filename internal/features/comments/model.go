package comments

import (
	"time"

	"github.com/xyz-asif/nexcrm/internal/mention"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxContentLength = 1000

// Comment is a task comment. Mention names are stored next to the ids so a
// comment still renders after the user or client is renamed or removed.
type Comment struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	TaskID               string               `bson:"taskId" json:"taskId"`
	AuthorID             primitive.ObjectID   `bson:"authorId" json:"authorId"`
	AuthorUsername       string               `bson:"authorUsername" json:"authorUsername"`
	Content              string               `bson:"content" json:"content"`
	MentionedUserIDs     []primitive.ObjectID `bson:"mentionedUserIds" json:"mentionedUserIds"`
	MentionedClientIDs   []primitive.ObjectID `bson:"mentionedClientIds" json:"mentionedClientIds"`
	MentionedUsernames   []string             `bson:"mentionedUsernames" json:"mentionedUsernames"`
	MentionedClientNames []string             `bson:"mentionedClientNames" json:"mentionedClientNames"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
}

// Author is the authenticated user writing a comment.
type Author struct {
	ID       primitive.ObjectID
	Username string
}

// CreateInput is a comment as submitted, with mention ids as hex strings.
type CreateInput struct {
	TaskID             string
	Content            string
	MentionedUserIDs   []string
	MentionedClientIDs []string
}

// Request DTOs

type CreateCommentRequest struct {
	TaskID             string   `json:"taskId" binding:"required"`
	Content            string   `json:"content" binding:"required"`
	MentionedUserIDs   []string `json:"mentionedUserIds"`
	MentionedClientIDs []string `json:"mentionedClientIds"`
}

type RenderRequest struct {
	Content              string   `json:"content"`
	MentionedUsernames   []string `json:"mentionedUsernames"`
	MentionedClientNames []string `json:"mentionedClientNames"`
}

// Response DTOs

type CommentResponse struct {
	Comment
	Segments []mention.Segment `json:"segments"`
}

type RenderResponse struct {
	Segments []mention.Segment `json:"segments"`
}

type DeleteByTaskResponse struct {
	DeletedCount int64 `json:"deletedCount"`
}

func ToResponse(c Comment) CommentResponse {
	return CommentResponse{
		Comment:  c,
		Segments: mention.Render(c.Content, c.MentionedUsernames, c.MentionedClientNames),
	}
}

func ToResponses(cs []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToResponse(c))
	}
	return out
}
