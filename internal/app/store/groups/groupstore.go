// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/txn"
	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Store struct {
	db      *mongo.Database
	c       *mongo.Collection
	members *mongo.Collection
	log     *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:      db,
		c:       db.Collection("study_groups"),
		members: db.Collection("group_memberships"),
		log:     logger,
	}
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.StudyGroup, error) {
	var g models.StudyGroup
	if err := s.c.FindOne(ctx, filter).Decode(&g); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.StudyGroup{}, errs.ErrGroupNotFound
		}
		return models.StudyGroup{}, err
	}
	return g, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (models.StudyGroup, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *Store) FindByName(ctx context.Context, name string) (models.StudyGroup, error) {
	return s.findOne(ctx, bson.M{"name": name})
}

// Create inserts the group and the creator's membership together.
//
// On a replica set both writes share a transaction. On a standalone server
// txn.Run runs them back to back, so a failed membership insert deletes the
// group it just wrote.
func (s *Store) Create(ctx context.Context, name, creatorID string) (models.StudyGroup, error) {
	now := time.Now().UTC()
	g := models.StudyGroup{
		ID:        primitive.NewObjectID().Hex(),
		Name:      name,
		CreatedAt: now,
	}
	m := models.Membership{
		ID:        primitive.NewObjectID().Hex(),
		GroupID:   g.ID,
		UserID:    creatorID,
		CreatedAt: now,
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, g); err != nil {
			return err
		}
		if _, err := s.members.InsertOne(ctx, m); err != nil {
			// An aborted transaction discards the group insert itself.
			if txn.InTransaction(ctx) {
				return err
			}
			if _, derr := s.c.DeleteOne(ctx, bson.M{"_id": g.ID}); derr != nil && s.log != nil {
				s.log.Warn("could not remove group after failed membership insert",
					zap.String("group_id", g.ID), zap.Error(derr))
			}
			return err
		}
		return nil
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.StudyGroup{}, errs.ErrGroupExists
		}
		return models.StudyGroup{}, err
	}
	return g, nil
}

// ListAll returns every group, oldest first.
func (s *Store) ListAll(ctx context.Context) ([]models.StudyGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.StudyGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
