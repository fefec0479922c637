// internal/domain/models/user.go
package models

import "time"

// User is a registered account.
//
// NOTE:
//   - Group membership is not embedded on User.
//     Use the membership store to discover a user's groups.
//   - Password holds the stored credential. Depending on the configured
//     password storage mode it is a bcrypt hash or the verbatim password.
type User struct {
	ID        string    `bson:"_id" json:"id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Identity returns the request-scoped identity for u.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username}
}
