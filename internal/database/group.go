package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"yatube/internal/models"
)

var (
	ErrGroupNotFound     = errors.New("группа не найдена")
	ErrSlugExists        = errors.New("группа с таким slug уже существует")
	ErrEmptyGroupTitle   = errors.New("название группы не может быть пустым")
	ErrLongGroupTitle    = errors.New("название группы не должно превышать 200 символов")
	ErrEmptySlug         = errors.New("slug не может быть пустым")
	ErrLongSlug          = errors.New("slug не должен превышать 100 символов")
	ErrInvalidSlug       = errors.New("slug может содержать только латинские буквы, цифры, подчеркивание и дефис")
	ErrGroupCreateFailed = errors.New("ошибка создания группы")
	ErrGroupDeleteFailed = errors.New("ошибка удаления группы")
)

var slugRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type GroupService struct {
	db *Database
}

func NewGroupService(db *Database) *GroupService {
	return &GroupService{db: db}
}

// CreateGroup создает новую группу
func (gs *GroupService) CreateGroup(ctx context.Context, title, slug, description string) (*models.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	description = strings.TrimSpace(description)

	if err := gs.validateGroupData(title, slug); err != nil {
		return nil, err
	}

	var exists int
	err := gs.db.DBConn.QueryRowContext(ctx, `SELECT 1 FROM post_groups WHERE slug = ?`, slug).Scan(&exists)
	if !errors.Is(err, sql.ErrNoRows) {
		if err == nil {
			return nil, ErrSlugExists
		}
		return nil, fmt.Errorf("ошибка проверки уникальности slug: %w", err)
	}

	query := `INSERT INTO post_groups (title, slug, description) VALUES (?, ?, ?) RETURNING id`

	group := models.Group{Title: title, Slug: slug, Description: description}
	err = gs.db.DBConn.QueryRowContext(ctx, query, title, slug, description).Scan(&group.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGroupCreateFailed, err)
	}

	return &group, nil
}

// GetGroup получает группу по ID
func (gs *GroupService) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	query := `SELECT id, title, slug, description FROM post_groups WHERE id = ?`
	return scanGroup(gs.db.DBConn.QueryRowContext(ctx, query, id))
}

// GetGroupBySlug получает группу по slug
func (gs *GroupService) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	query := `SELECT id, title, slug, description FROM post_groups WHERE slug = ?`
	return scanGroup(gs.db.DBConn.QueryRowContext(ctx, query, slug))
}

func scanGroup(row *sql.Row) (*models.Group, error) {
	var group models.Group
	err := row.Scan(&group.ID, &group.Title, &group.Slug, &group.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

// GetAllGroups получает все группы, отсортированные по названию
func (gs *GroupService) GetAllGroups(ctx context.Context) ([]*models.Group, error) {
	query := `SELECT id, title, slug, description FROM post_groups ORDER BY title, id`

	rows, err := gs.db.DBConn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		var group models.Group
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description); err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}

// DeleteGroup удаляет группу. Посты группы остаются, но теряют группу.
func (gs *GroupService) DeleteGroup(ctx context.Context, id int) error {
	tx, err := gs.db.DBConn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGroupDeleteFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE posts SET group_id = NULL WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("%w: %v", ErrGroupDeleteFailed, err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM post_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGroupDeleteFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrGroupNotFound
	}

	return tx.Commit()
}

// validateGroupData валидирует название и slug
func (gs *GroupService) validateGroupData(title, slug string) error {
	if len(title) == 0 {
		return ErrEmptyGroupTitle
	}
	if len([]rune(title)) > 200 {
		return ErrLongGroupTitle
	}

	if len(slug) == 0 {
		return ErrEmptySlug
	}
	if len(slug) > 100 {
		return ErrLongSlug
	}
	if !slugRE.MatchString(slug) {
		return ErrInvalidSlug
	}

	return nil
}
