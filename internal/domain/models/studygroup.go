// internal/domain/models/studygroup.go
package models

import "time"

// StudyGroup is a named group users can join and leave.
//
// Members are not embedded; all membership lives in the association
// (group_memberships / user_studygroup).
type StudyGroup struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
