package sqlitestore_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	sqlitestore "github.com/dalemusser/studyhub/internal/app/store/sqlite"
	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *sqlitestore.Store {
	t.Helper()
	st, err := sqlitestore.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func createUser(t *testing.T, st *sqlitestore.Store, name string) models.User {
	t.Helper()
	u, err := st.Users().Create(context.Background(), models.User{
		Username: name,
		Email:    name + "@x",
		Password: "pw",
	})
	require.NoError(t, err)
	return u
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	st, err := sqlitestore.Open(path)
	require.NoError(t, err)
	_, err = st.Users().Create(context.Background(), models.User{Username: "a", Email: "a@x", Password: "p"})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = sqlitestore.Open(path)
	require.NoError(t, err)
	defer st.Close()

	u, err := st.Users().FindByUsername(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "a@x", u.Email)
}

func TestStore_Ping(t *testing.T) {
	st := openTestStore(t)
	assert.NoError(t, st.Ping(context.Background()))
}

func TestUsers_CreateAndFind(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	u := createUser(t, st, "alice")
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := st.Users().FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := st.Users().FindByEmail(ctx, "alice@x")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = st.Users().FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = st.Users().FindByID(ctx, "not-a-number")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUsers_CreateUniqueConstraints(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	createUser(t, st, "alice")

	_, err := st.Users().Create(ctx, models.User{Username: "alice", Email: "other@x", Password: "p"})
	assert.ErrorIs(t, err, errs.ErrUsernameTaken)
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = st.Users().Create(ctx, models.User{Username: "alice2", Email: "alice@x", Password: "p"})
	assert.ErrorIs(t, err, errs.ErrEmailTaken)
}

func TestUsers_ListAndDeleteAll(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	createUser(t, st, "alice")
	createUser(t, st, "bob")

	all, err := st.Users().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].Username)
	assert.Equal(t, "bob", all[1].Username)

	n, err := st.Users().DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	all, err = st.Users().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGroups_CreateAddsCreator(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	alice := createUser(t, st, "alice")

	g, err := st.Groups().Create(ctx, "Math", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", g.Name)

	members, err := st.Memberships().ListMembers(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, alice.ID, members[0].ID)

	byName, err := st.Groups().FindByName(ctx, "Math")
	require.NoError(t, err)
	assert.Equal(t, g.ID, byName.ID)

	byID, err := st.Groups().FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Math", byID.Name)

	_, err = st.Groups().Create(ctx, "Math", alice.ID)
	assert.ErrorIs(t, err, errs.ErrGroupExists)
}

func TestGroups_CreateRollsBackOnMissingCreator(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	_, err := st.Groups().Create(ctx, "Math", "999")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = st.Groups().FindByName(ctx, "Math")
	assert.ErrorIs(t, err, errs.ErrGroupNotFound)
}

func TestGroups_ConcurrentCreateOneWins(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	alice := createUser(t, st, "alice")

	const n = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := st.Groups().Create(ctx, "Math", alice.ID)
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, errs.ErrGroupExists)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestMemberships_AddRemoveExists(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")
	g, err := st.Groups().Create(ctx, "Math", alice.ID)
	require.NoError(t, err)

	ok, err := st.Memberships().Exists(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.Memberships().Add(ctx, g.ID, bob.ID))
	assert.ErrorIs(t, st.Memberships().Add(ctx, g.ID, bob.ID), errs.ErrAlreadyMember)

	ok, err = st.Memberships().Exists(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	members, err := st.Memberships().ListMembers(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, []string{"alice", "bob"}, []string{members[0].Username, members[1].Username})

	require.NoError(t, st.Memberships().Remove(ctx, g.ID, bob.ID))
	assert.ErrorIs(t, st.Memberships().Remove(ctx, g.ID, bob.ID), errs.ErrNotMember)

	assert.ErrorIs(t, st.Memberships().Add(ctx, g.ID, "999"), errs.ErrNotFound)
}

func TestMemberships_ListGroupsForUser(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	alice := createUser(t, st, "alice")
	bob := createUser(t, st, "bob")

	math, err := st.Groups().Create(ctx, "Math", alice.ID)
	require.NoError(t, err)
	_, err = st.Groups().Create(ctx, "Art", bob.ID)
	require.NoError(t, err)
	physics, err := st.Groups().Create(ctx, "Physics", bob.ID)
	require.NoError(t, err)
	require.NoError(t, st.Memberships().Add(ctx, physics.ID, alice.ID))

	groups, err := st.Memberships().ListGroupsForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, math.ID, groups[0].ID)
	assert.Equal(t, physics.ID, groups[1].ID)
}

func TestDeleteAllUsersCascadesMemberships(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	alice := createUser(t, st, "alice")
	g, err := st.Groups().Create(ctx, "Math", alice.ID)
	require.NoError(t, err)

	_, err = st.Users().DeleteAll(ctx)
	require.NoError(t, err)

	members, err := st.Memberships().ListMembers(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, members)

	n, err := st.Memberships().DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}
