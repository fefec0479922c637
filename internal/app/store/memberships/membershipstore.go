// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c      *mongo.Collection
	users  *mongo.Collection
	groups *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("group_memberships"),
		users:  db.Collection("users"),
		groups: db.Collection("study_groups"),
	}
}

// joinOrder sorts memberships by insertion.
var joinOrder = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

// Add creates the (groupID, userID) membership.
func (s *Store) Add(ctx context.Context, groupID, userID string) error {
	m := models.Membership{
		ID:        primitive.NewObjectID().Hex(),
		GroupID:   groupID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return errs.ErrAlreadyMember
		}
		return err
	}
	return nil
}

// Remove deletes the membership document for (groupID, userID).
func (s *Store) Remove(ctx context.Context, groupID, userID string) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotMember
	}
	return nil
}

// Exists reports whether userID is a member of groupID.
func (s *Store) Exists(ctx context.Context, groupID, userID string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

func (s *Store) memberships(ctx context.Context, filter bson.M) ([]models.Membership, error) {
	cur, err := s.c.Find(ctx, filter, joinOrder)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Membership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListMembers returns the group's users in the order they joined.
// Memberships whose user no longer exists are skipped.
func (s *Store) ListMembers(ctx context.Context, groupID string) ([]models.User, error) {
	ms, err := s.memberships(ctx, bson.M{"group_id": groupID})
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.UserID)
	}

	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]models.User, 0, len(ms))
	for _, m := range ms {
		if u, ok := byID[m.UserID]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// ListGroupsForUser returns the user's groups in the order they joined.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]models.StudyGroup, error) {
	ms, err := s.memberships(ctx, bson.M{"user_id": userID})
	if err != nil || len(ms) == 0 {
		return nil, err
	}
	ids := make([]string, 0, len(ms))
	for _, m := range ms {
		ids = append(ids, m.GroupID)
	}

	cur, err := s.groups.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var groups []models.StudyGroup
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}

	byID := make(map[string]models.StudyGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	out := make([]models.StudyGroup, 0, len(ms))
	for _, m := range ms {
		if g, ok := byID[m.GroupID]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// DeleteAll removes every membership. Returns the number deleted.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
