// internal/domain/models/membership.go
package models

import "time"

// Membership is the join between users and study groups.
// Exactly one record per (group_id, user_id).
type Membership struct {
	ID        string    `bson:"_id" json:"id"`
	GroupID   string    `bson:"group_id" json:"group_id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// GroupWithMembers is a read projection of a group and its ordered members.
type GroupWithMembers struct {
	Group   StudyGroup
	Members []User
}
