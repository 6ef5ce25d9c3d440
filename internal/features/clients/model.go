package clients

import (
	"time"

	"github.com/xyz-asif/nexcrm/internal/mention"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client is a customer account. Mentions use its name.
type Client struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Nom        string             `bson:"nom" json:"nom"`
	Email      string             `bson:"email" json:"email"`
	Telephone  string             `bson:"telephone" json:"telephone"`
	Entreprise string             `bson:"entreprise" json:"entreprise"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

func (c Client) Candidate() mention.Candidate {
	return mention.Candidate{
		ID:           c.ID.Hex(),
		Kind:         mention.KindClient,
		DisplayToken: c.Nom,
	}
}
