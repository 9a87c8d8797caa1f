package database

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

var testDrivers = []string{DriverCGO, DriverPureGo}

// newFileDB открывает базу в файле, чтобы соединения пула делили одни данные
func newFileDB(t *testing.T, driver string) *Database {
	t.Helper()

	db, err := NewDatabase(driver, filepath.Join(t.TempDir(), "yatube.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestWithConnParams(t *testing.T) {
	tests := []struct {
		driver string
		dsn    string
		want   string
	}{
		{DriverCGO, "./yatube.db", "./yatube.db?_busy_timeout=5000&_foreign_keys=1&_txlock=immediate"},
		{DriverPureGo, ":memory:", ":memory:?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"},
		{DriverPureGo, "file:yatube.db?mode=rwc", "file:yatube.db?mode=rwc&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_txlock=immediate"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, withConnParams(tt.driver, tt.dsn))
	}
}

func TestDriverLifecycle(t *testing.T) {
	for _, driver := range testDrivers {
		t.Run(driver, func(t *testing.T) {
			db := newFileDB(t, driver)
			ctx := context.Background()
			user := createTestUser(t, db, "tester")
			group := createTestGroup(t, db, "test")

			ps := NewPostService(db)
			var created []*models.Post
			for i := 0; i < 3; i++ {
				post, err := ps.CreatePost(ctx, fmt.Sprintf("Пост %d", i), user.ID, &group.ID)
				require.NoError(t, err)
				created = append(created, post)
			}

			posts, err := ps.ListPosts(ctx, models.PostFilter{GroupID: &group.ID}, 10, 0)
			require.NoError(t, err)
			require.Len(t, posts, 3)
			assert.Equal(t, created[2].ID, posts[0].ID)
			assert.True(t, created[2].PubDate.Equal(posts[0].PubDate))
			assert.Equal(t, created[0].ID, posts[2].ID)

			require.NoError(t, ps.UpdatePost(ctx, created[0].ID, "Новый текст", nil, user.ID))
			edited, err := ps.GetPost(ctx, created[0].ID)
			require.NoError(t, err)
			assert.Equal(t, "Новый текст", edited.Text)
			assert.True(t, created[0].PubDate.Equal(edited.PubDate))

			ss := NewSessionService(db, time.Hour)
			session, err := ss.CreateSession(ctx, user.ID)
			require.NoError(t, err)

			got, err := ss.GetUserBySession(ctx, session.Token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)

			removed, err := ss.CleanupExpiredSessions(ctx)
			require.NoError(t, err)
			assert.Zero(t, removed)

			ss.now = func() time.Time { return session.Expires }
			removed, err = ss.CleanupExpiredSessions(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), removed)
		})
	}
}

func TestConcurrentWrites(t *testing.T) {
	const writers = 50

	for _, driver := range testDrivers {
		t.Run(driver, func(t *testing.T) {
			db := newFileDB(t, driver)
			user := createTestUser(t, db, "tester")
			ps := NewPostService(db)
			ss := NewSessionService(db, time.Hour)

			g, ctx := errgroup.WithContext(context.Background())
			for i := 0; i < writers; i++ {
				g.Go(func() error {
					if _, err := ps.CreatePost(ctx, fmt.Sprintf("Пост %d", i), user.ID, nil); err != nil {
						return err
					}
					_, err := ss.CleanupExpiredSessions(ctx)
					return err
				})
			}
			require.NoError(t, g.Wait())

			count, err := ps.CountPosts(context.Background(), models.PostFilter{})
			require.NoError(t, err)
			assert.Equal(t, writers, count)
		})
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	for _, driver := range testDrivers {
		t.Run(driver, func(t *testing.T) {
			db := newFileDB(t, driver)
			ctx := context.Background()

			var enabled int
			require.NoError(t, db.DBConn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled))
			assert.Equal(t, 1, enabled)

			author := createTestUser(t, db, "author")
			other := createTestUser(t, db, "other")
			group := createTestGroup(t, db, "test")
			ps := NewPostService(db)

			gone, err := ps.CreatePost(ctx, "Пост автора", author.ID, nil)
			require.NoError(t, err)
			kept, err := ps.CreatePost(ctx, "Пост в группе", other.ID, &group.ID)
			require.NoError(t, err)
			_, err = NewSessionService(db, time.Hour).CreateSession(ctx, author.ID)
			require.NoError(t, err)

			// Удаление автора удаляет его посты и сессии
			_, err = db.DBConn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, author.ID)
			require.NoError(t, err)

			_, err = ps.GetPost(ctx, gone.ID)
			assert.ErrorIs(t, err, ErrPostNotFound)

			var sessions int
			require.NoError(t, db.DBConn.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM sessions WHERE user_id = ?`, author.ID).Scan(&sessions))
			assert.Zero(t, sessions)

			// Удаление группы оставляет пост без группы
			_, err = db.DBConn.ExecContext(ctx, `DELETE FROM post_groups WHERE id = ?`, group.ID)
			require.NoError(t, err)

			got, err := ps.GetPost(ctx, kept.ID)
			require.NoError(t, err)
			assert.Nil(t, got.GroupID)

			// Пост с несуществующим автором не сохраняется
			_, err = ps.CreatePost(ctx, "Без автора", 999, nil)
			assert.ErrorIs(t, err, ErrPostCreateFailed)
		})
	}
}
