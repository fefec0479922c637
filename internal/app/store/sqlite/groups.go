package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/studyhub/internal/domain/errs"
	"github.com/dalemusser/studyhub/internal/domain/models"
)

// Groups implements the study-group store over the study_groups table.
type Groups struct {
	db *sql.DB
}

const groupColumns = `id, name, created_at`

func scanGroup(row scanner) (models.StudyGroup, error) {
	var (
		g  models.StudyGroup
		id int64
	)
	if err := row.Scan(&id, &g.Name, &g.CreatedAt); err != nil {
		return models.StudyGroup{}, err
	}
	g.ID = formatID(id)
	return g, nil
}

func scanGroups(rows *sql.Rows) ([]models.StudyGroup, error) {
	defer rows.Close()
	var out []models.StudyGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Groups) findOne(ctx context.Context, where string, arg any) (models.StudyGroup, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+groupColumns+` FROM study_groups WHERE `+where+` = ?`, arg)
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.StudyGroup{}, errs.ErrGroupNotFound
	}
	return g, err
}

// FindByID loads a group by id.
func (s *Groups) FindByID(ctx context.Context, id string) (models.StudyGroup, error) {
	n, ok := parseID(id)
	if !ok {
		return models.StudyGroup{}, errs.ErrGroupNotFound
	}
	return s.findOne(ctx, "id", n)
}

// FindByName loads a group by exact name.
func (s *Groups) FindByName(ctx context.Context, name string) (models.StudyGroup, error) {
	return s.findOne(ctx, "name", name)
}

// Create inserts the group and the creator's association row in one
// transaction.
func (s *Groups) Create(ctx context.Context, name, creatorID string) (models.StudyGroup, error) {
	uid, ok := parseID(creatorID)
	if !ok {
		return models.StudyGroup{}, errs.ErrUserNotFound
	}
	g := models.StudyGroup{Name: name, CreatedAt: time.Now().UTC()}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.StudyGroup{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO study_groups (name, created_at) VALUES (?, ?)`, g.Name, g.CreatedAt)
	if isUnique(err, "study_groups.name") {
		return models.StudyGroup{}, errs.ErrGroupExists
	}
	if err != nil {
		return models.StudyGroup{}, fmt.Errorf("insert group: %w", err)
	}
	gid, err := res.LastInsertId()
	if err != nil {
		return models.StudyGroup{}, fmt.Errorf("insert group: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_studygroup (user_id, studygroup_id) VALUES (?, ?)`, uid, gid)
	if isForeignKey(err) {
		return models.StudyGroup{}, errs.ErrUserNotFound
	}
	if err != nil {
		return models.StudyGroup{}, fmt.Errorf("insert creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.StudyGroup{}, fmt.Errorf("commit: %w", err)
	}
	g.ID = formatID(gid)
	return g, nil
}

// ListAll returns every group in creation order.
func (s *Groups) ListAll(ctx context.Context) ([]models.StudyGroup, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+groupColumns+` FROM study_groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return scanGroups(rows)
}
