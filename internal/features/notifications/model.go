package notifications

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type constants
const (
	TypeMention = "MENTION"

	EntityComment = "COMMENT"
)

// Notification represents a user notification
type Notification struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RecipientID    primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	SenderID       primitive.ObjectID `bson:"senderId" json:"senderId"`
	SenderUsername string             `bson:"senderUsername" json:"senderUsername"`
	Type           string             `bson:"type" json:"type"`
	EntityType     string             `bson:"entityType" json:"entityType"`
	EntityID       primitive.ObjectID `bson:"entityId" json:"entityId"`
	TaskID         string             `bson:"taskId" json:"taskId"`
	Message        string             `bson:"message" json:"message"`
	Preview        string             `bson:"preview" json:"preview"`
	IsRead         bool               `bson:"isRead" json:"read"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// MentionEvent describes a comment that mentions users.
type MentionEvent struct {
	SenderID       primitive.ObjectID
	SenderUsername string
	CommentID      primitive.ObjectID
	TaskID         string
	Content        string
	RecipientIDs   []primitive.ObjectID
}

// Request DTOs

type NotificationListQuery struct {
	Page       int  `form:"page,default=1"`
	Limit      int  `form:"limit,default=20"`
	UnreadOnly bool `form:"unreadOnly"`
}

// Response DTOs

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

type MarkReadResponse struct {
	ID     primitive.ObjectID `json:"id"`
	IsRead bool               `json:"read"`
}

type MarkAllReadResponse struct {
	MarkedCount int64 `json:"markedCount"`
}
