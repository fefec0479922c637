package indexes_test

import (
	"testing"

	"github.com/dalemusser/studyhub/internal/app/system/indexes"
	"github.com/dalemusser/studyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)

	want := map[string][]string{
		"users":             {indexes.UsersUsername, indexes.UsersEmail},
		"study_groups":      {indexes.StudyGroupsName},
		"group_memberships": {indexes.MembershipsGroupUser, indexes.MembershipsGroupOrder, indexes.MembershipsUser},
	}

	for coll, names := range want {
		got := indexNames(t, db.Collection(coll))
		for _, name := range names {
			if !got[name] {
				t.Errorf("expected index %q on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_UniqueMembershipEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := db.Collection("group_memberships")
	if _, err := c.InsertOne(ctx, bson.M{"_id": "m1", "group_id": "g1", "user_id": "u1"}); err != nil {
		t.Fatalf("insert membership failed: %v", err)
	}
	if _, err := c.InsertOne(ctx, bson.M{"_id": "m2", "group_id": "g1", "user_id": "u1"}); err == nil {
		t.Error("expected duplicate key error for (group_id, user_id)")
	}
}
