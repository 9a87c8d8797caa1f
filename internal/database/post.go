package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yatube/internal/models"
)

var (
	ErrPostNotFound     = errors.New("пост не найден")
	ErrEmptyText        = errors.New("текст поста не может быть пустым")
	ErrPostCreateFailed = errors.New("ошибка создания поста")
	ErrPostUpdateFailed = errors.New("ошибка обновления поста")
	ErrPostDeleteFailed = errors.New("ошибка удаления поста")
	ErrNotPostAuthor    = errors.New("только автор может изменять пост")
)

const postSelect = `SELECT p.id, p.text, p.pub_date, p.author_id, u.username,
			  g.id, g.title, g.slug, g.description
			  FROM posts p
			  JOIN users u ON p.author_id = u.id
			  LEFT JOIN post_groups g ON p.group_id = g.id`

type PostService struct {
	db  *Database
	now func() time.Time
}

func NewPostService(db *Database) *PostService {
	return &PostService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreatePost создает новый пост. groupID == nil - пост без группы.
func (ps *PostService) CreatePost(ctx context.Context, text string, authorID int, groupID *int) (*models.Post, error) {
	text = strings.TrimSpace(text)
	if err := ValidatePostText(text); err != nil {
		return nil, err
	}
	if err := ps.checkGroup(ctx, groupID); err != nil {
		return nil, err
	}

	query := `INSERT INTO posts (text, pub_date, author_id, group_id)
			  VALUES (?, ?, ?, ?) RETURNING id`

	post := models.Post{
		Text:     text,
		PubDate:  ps.now(),
		AuthorID: authorID,
		GroupID:  groupID,
	}

	err := ps.db.DBConn.QueryRowContext(ctx, query, text, post.PubDate, authorID, nullableID(groupID)).Scan(&post.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPostCreateFailed, err)
	}

	return &post, nil
}

// GetPost получает пост по ID вместе с автором и группой
func (ps *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	query := postSelect + ` WHERE p.id = ?`

	post, err := scanPost(ps.db.DBConn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	return post, nil
}

// ListPosts получает страницу ленты, новые посты первыми
func (ps *PostService) ListPosts(ctx context.Context, filter models.PostFilter, limit, offset int) ([]*models.Post, error) {
	where, args := filterClause(filter)
	query := postSelect + where + ` ORDER BY p.pub_date DESC, p.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := ps.db.DBConn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// CountPosts считает посты ленты
func (ps *PostService) CountPosts(ctx context.Context, filter models.PostFilter) (int, error) {
	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM posts p` + where

	var count int
	err := ps.db.DBConn.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// UpdatePost меняет текст и группу поста. Дата публикации не меняется.
func (ps *PostService) UpdatePost(ctx context.Context, id int, text string, groupID *int, userID int) error {
	text = strings.TrimSpace(text)
	if err := ValidatePostText(text); err != nil {
		return err
	}

	if err := ps.checkAuthor(ctx, id, userID); err != nil {
		return err
	}
	if err := ps.checkGroup(ctx, groupID); err != nil {
		return err
	}

	query := `UPDATE posts SET text = ?, group_id = ? WHERE id = ?`
	if _, err := ps.db.DBConn.ExecContext(ctx, query, text, nullableID(groupID), id); err != nil {
		return fmt.Errorf("%w: %v", ErrPostUpdateFailed, err)
	}

	return nil
}

// DeletePost удаляет пост (только автор может удалять)
func (ps *PostService) DeletePost(ctx context.Context, id int, userID int) error {
	if err := ps.checkAuthor(ctx, id, userID); err != nil {
		return err
	}

	result, err := ps.db.DBConn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPostDeleteFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrPostNotFound
	}

	return nil
}

// checkAuthor проверяет, что пост существует и принадлежит пользователю
func (ps *PostService) checkAuthor(ctx context.Context, postID, userID int) error {
	var authorID int
	err := ps.db.DBConn.QueryRowContext(ctx, `SELECT author_id FROM posts WHERE id = ?`, postID).Scan(&authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPostNotFound
		}
		return err
	}
	if authorID != userID {
		return ErrNotPostAuthor
	}
	return nil
}

// checkGroup проверяет, что выбранная группа существует
func (ps *PostService) checkGroup(ctx context.Context, groupID *int) error {
	if groupID == nil {
		return nil
	}

	var exists int
	err := ps.db.DBConn.QueryRowContext(ctx, `SELECT 1 FROM post_groups WHERE id = ?`, *groupID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGroupNotFound
		}
		return err
	}
	return nil
}

// ValidatePostText валидирует текст поста
func ValidatePostText(text string) error {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return ErrEmptyText
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post             models.Post
		groupID          sql.NullInt64
		groupTitle       sql.NullString
		groupSlug        sql.NullString
		groupDescription sql.NullString
	)

	err := row.Scan(&post.ID, &post.Text, &post.PubDate, &post.AuthorID, &post.Author,
		&groupID, &groupTitle, &groupSlug, &groupDescription)
	if err != nil {
		return nil, err
	}

	if groupID.Valid {
		id := int(groupID.Int64)
		post.GroupID = &id
		post.Group = &models.Group{
			ID:          id,
			Title:       groupTitle.String,
			Slug:        groupSlug.String,
			Description: groupDescription.String,
		}
	}

	return &post, nil
}

func filterClause(filter models.PostFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.GroupID != nil {
		conds = append(conds, "p.group_id = ?")
		args = append(args, *filter.GroupID)
	}
	if filter.AuthorID != nil {
		conds = append(conds, "p.author_id = ?")
		args = append(args, *filter.AuthorID)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nullableID(id *int) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}
