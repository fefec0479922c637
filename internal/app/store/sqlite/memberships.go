package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

// Memberships implements the association store over user_studygroup.
type Memberships struct {
	db *sql.DB
}

func parsePair(groupID, userID string) (gid, uid int64, ok bool) {
	gid, gok := parseID(groupID)
	uid, uok := parseID(userID)
	return gid, uid, gok && uok
}

// Add inserts the (group, user) pair.
func (s *Memberships) Add(ctx context.Context, groupID, userID string) error {
	gid, uid, ok := parsePair(groupID, userID)
	if !ok {
		return errDanglingRef
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_studygroup (user_id, studygroup_id) VALUES (?, ?)`, uid, gid)
	switch {
	case isUnique(err, "user_studygroup."):
		return errs.ErrAlreadyMember
	case isForeignKey(err):
		return errDanglingRef
	case err != nil:
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// Remove deletes the (group, user) pair.
func (s *Memberships) Remove(ctx context.Context, groupID, userID string) error {
	gid, uid, ok := parsePair(groupID, userID)
	if !ok {
		return errs.ErrNotMember
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_studygroup WHERE studygroup_id = ? AND user_id = ?`, gid, uid)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if n == 0 {
		return errs.ErrNotMember
	}
	return nil
}

// Exists reports whether the pair is present.
func (s *Memberships) Exists(ctx context.Context, groupID, userID string) (bool, error) {
	gid, uid, ok := parsePair(groupID, userID)
	if !ok {
		return false, nil
	}
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM user_studygroup WHERE studygroup_id = ? AND user_id = ?`, gid, uid).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("membership lookup: %w", err)
	}
	return true, nil
}

// ListMembers returns the group's users in the order they joined.
func (s *Memberships) ListMembers(ctx context.Context, groupID string) ([]models.User, error) {
	gid, ok := parseID(groupID)
	if !ok {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.password, u.created_at
		FROM user_studygroup m
		JOIN users u ON u.id = m.user_id
		WHERE m.studygroup_id = ?
		ORDER BY m.rowid`, gid)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ListGroupsForUser returns the groups the user belongs to in the order
// they joined.
func (s *Memberships) ListGroupsForUser(ctx context.Context, userID string) ([]models.StudyGroup, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.created_at
		FROM user_studygroup m
		JOIN study_groups g ON g.id = m.studygroup_id
		WHERE m.user_id = ?
		ORDER BY m.rowid`, uid)
	if err != nil {
		return nil, fmt.Errorf("list groups for user: %w", err)
	}
	return scanGroups(rows)
}

// DeleteAll removes every association row.
func (s *Memberships) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_studygroup`)
	if err != nil {
		return 0, fmt.Errorf("delete memberships: %w", err)
	}
	return res.RowsAffected()
}
