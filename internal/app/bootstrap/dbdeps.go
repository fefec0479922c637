// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/studyhub/internal/app/features/health"
	"github.com/dalemusser/studyhub/internal/app/membership"
	groupstore "github.com/dalemusser/studyhub/internal/app/store/groups"
	membershipstore "github.com/dalemusser/studyhub/internal/app/store/memberships"
	sqlitestore "github.com/dalemusser/studyhub/internal/app/store/sqlite"
	userstore "github.com/dalemusser/studyhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// DBDeps holds database/back-end dependencies for the app.
// Exactly one backend is populated, as named by Backend.
type DBDeps struct {
	Backend string

	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	SQLite *sqlitestore.Store
}

// stores is the backend-neutral view handed to the service and handlers.
type stores struct {
	users   membership.UserStore
	groups  membership.GroupStore
	members membership.MembershipStore
	pinger  health.Pinger
}

func (d DBDeps) stores(logger *zap.Logger) stores {
	if d.SQLite != nil {
		return stores{
			users:   d.SQLite.Users(),
			groups:  d.SQLite.Groups(),
			members: d.SQLite.Memberships(),
			pinger:  d.SQLite,
		}
	}
	client := d.MongoClient
	return stores{
		users:   userstore.New(d.MongoDatabase),
		groups:  groupstore.New(d.MongoDatabase, logger),
		members: membershipstore.New(d.MongoDatabase),
		pinger: health.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}),
	}
}
