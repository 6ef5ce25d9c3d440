package users

import (
	"time"

	"github.com/xyz-asif/nexcrm/internal/mention"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role constants
const (
	RoleDeveloper = "DEVELOPER"
	RoleManager   = "MANAGER"
	RoleAdmin     = "ADMIN"
)

// User is a CRM account. Accounts are managed by the auth service; this
// module only reads them.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string             `bson:"username" json:"username"`
	Prenom    string             `bson:"prenom" json:"prenom"`
	Nom       string             `bson:"nom" json:"nom"`
	Email     string             `bson:"email" json:"email"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Candidate is the user as a mention target.
func (u User) Candidate() mention.Candidate {
	return mention.Candidate{
		ID:           u.ID.Hex(),
		Kind:         mention.KindUser,
		DisplayToken: u.Username,
	}
}

// Response DTOs

type UserResponse struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
	Prenom   string             `json:"prenom"`
	Nom      string             `json:"nom"`
	Email    string             `json:"email"`
	Role     string             `json:"role"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Prenom:   u.Prenom,
		Nom:      u.Nom,
		Email:    u.Email,
		Role:     u.Role,
	}
}
