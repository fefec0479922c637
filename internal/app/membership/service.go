// internal/app/membership/service.go
package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/studyhub/internal/app/system/passwords"
	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
	"go.uber.org/zap"
)

// UserStore is the identity store the service reads and writes.
// Lookups return errs.ErrUserNotFound when no record matches.
type UserStore interface {
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	// Create fails with errs.ErrUsernameTaken or errs.ErrEmailTaken when a
	// unique constraint rejects the write.
	Create(ctx context.Context, u models.User) (models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// GroupStore holds study groups. Lookups return errs.ErrGroupNotFound.
type GroupStore interface {
	FindByID(ctx context.Context, id string) (models.StudyGroup, error)
	FindByName(ctx context.Context, name string) (models.StudyGroup, error)
	// Create writes the group and the creator's membership atomically and
	// fails with errs.ErrGroupExists if the name is taken.
	Create(ctx context.Context, name, creatorID string) (models.StudyGroup, error)
	ListAll(ctx context.Context) ([]models.StudyGroup, error)
}

// MembershipStore is the (group, user) association.
type MembershipStore interface {
	// Add fails with errs.ErrAlreadyMember on a duplicate pair.
	Add(ctx context.Context, groupID, userID string) error
	// Remove fails with errs.ErrNotMember when no row was removed.
	Remove(ctx context.Context, groupID, userID string) error
	Exists(ctx context.Context, groupID, userID string) (bool, error)
	// ListMembers returns users in membership insertion order.
	ListMembers(ctx context.Context, groupID string) ([]models.User, error)
	ListGroupsForUser(ctx context.Context, userID string) ([]models.StudyGroup, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Service is the study-group business logic. It is stateless; every call
// re-reads the stores.
type Service struct {
	users   UserStore
	groups  GroupStore
	members MembershipStore
	hasher  passwords.Hasher
	log     *zap.Logger
}

// New constructs a Service.
func New(users UserStore, groups GroupStore, members MembershipStore, hasher passwords.Hasher, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		groups:  groups,
		members: members,
		hasher:  hasher,
		log:     logger,
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Accounts                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// Register creates an account. Username is checked before email. The new
// user is not signed in.
func (s *Service) Register(ctx context.Context, username, email, password string) (models.User, error) {
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return models.User{}, errs.ErrUsernameTaken
	} else if !errors.Is(err, errs.ErrNotFound) {
		return models.User{}, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return models.User{}, errs.ErrEmailTaken
	} else if !errors.Is(err, errs.ErrNotFound) {
		return models.User{}, err
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, models.User{
		Username:  username,
		Email:     email,
		Password:  stored,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords
// both return errs.ErrBadCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, errs.ErrNotFound) {
		return models.User{}, errs.ErrBadCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !s.hasher.Verify(u.Password, password) {
		return models.User{}, errs.ErrBadCredentials
	}
	return u, nil
}

// User loads a user by id.
func (s *Service) User(ctx context.Context, id string) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// Users lists every account.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	return s.users.ListAll(ctx)
}

// ClearUsers deletes every user and then every membership row. Groups
// remain, empty. Returns the number of users deleted.
//
// Users go first so that a join racing the clear is swept up by the
// membership delete instead of outliving its user.
func (s *Service) ClearUsers(ctx context.Context, actor models.Identity) (int64, error) {
	n, err := s.users.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete users: %w", err)
	}
	memberships, err := s.members.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete memberships: %w", err)
	}
	s.log.Warn("all users deleted",
		zap.String("actor_id", actor.ID),
		zap.Int64("users", n),
		zap.Int64("memberships", memberships))
	return n, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Groups                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateGroup creates a group with actor as its only member.
func (s *Service) CreateGroup(ctx context.Context, actor models.Identity, name string) (models.StudyGroup, error) {
	_, err := s.groups.FindByName(ctx, name)
	if err == nil {
		return models.StudyGroup{}, errs.ErrGroupExists
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return models.StudyGroup{}, err
	}

	g, err := s.groups.Create(ctx, name, actor.ID)
	if err != nil {
		return models.StudyGroup{}, err
	}
	s.log.Info("group created", zap.String("group_id", g.ID), zap.String("name", g.Name), zap.String("actor_id", actor.ID))
	return g, nil
}

// JoinGroup adds actor to the group called name.
func (s *Service) JoinGroup(ctx context.Context, actor models.Identity, name string) error {
	g, err := s.groups.FindByName(ctx, name)
	if err != nil {
		return err
	}

	in, err := s.members.Exists(ctx, g.ID, actor.ID)
	if err != nil {
		return err
	}
	if in {
		return errs.ErrAlreadyMember
	}

	if err := s.members.Add(ctx, g.ID, actor.ID); err != nil {
		return err
	}
	s.log.Info("group joined", zap.String("group_id", g.ID), zap.String("actor_id", actor.ID))
	return nil
}

// LeaveGroup removes actor from the group called name.
func (s *Service) LeaveGroup(ctx context.Context, actor models.Identity, name string) error {
	g, err := s.groups.FindByName(ctx, name)
	if err != nil {
		return err
	}

	in, err := s.members.Exists(ctx, g.ID, actor.ID)
	if err != nil {
		return err
	}
	if !in {
		return errs.ErrNotMember
	}

	if err := s.members.Remove(ctx, g.ID, actor.ID); err != nil {
		return err
	}
	s.log.Info("group left", zap.String("group_id", g.ID), zap.String("actor_id", actor.ID))
	return nil
}

// Group loads a group by id.
func (s *Service) Group(ctx context.Context, id string) (models.StudyGroup, error) {
	return s.groups.FindByID(ctx, id)
}

// Members lists the members of the group called name in join order.
func (s *Service) Members(ctx context.Context, name string) ([]models.User, error) {
	g, err := s.groups.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.members.ListMembers(ctx, g.ID)
}

// Groups lists every group with its members.
func (s *Service) Groups(ctx context.Context) ([]models.GroupWithMembers, error) {
	groups, err := s.groups.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.GroupWithMembers, 0, len(groups))
	for _, g := range groups {
		members, err := s.members.ListMembers(ctx, g.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.GroupWithMembers{Group: g, Members: members})
	}
	return out, nil
}

// GroupsFor lists the groups actor belongs to.
func (s *Service) GroupsFor(ctx context.Context, actor models.Identity) ([]models.StudyGroup, error) {
	return s.members.ListGroupsForUser(ctx, actor.ID)
}
