package database

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetPost(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tester")
	group := createTestGroup(t, db, "test")
	ps := NewPostService(db)
	ctx := context.Background()

	post, err := ps.CreatePost(ctx, "  Test text  ", user.ID, &group.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test text", post.Text)

	got, err := ps.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test text", got.Text)
	assert.Equal(t, user.ID, got.AuthorID)
	assert.Equal(t, "tester", got.Author)
	require.NotNil(t, got.Group)
	assert.Equal(t, group.Slug, got.Group.Slug)
	assert.True(t, post.PubDate.Equal(got.PubDate))
}

func TestCreatePostWithoutGroup(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tester")
	ps := NewPostService(db)

	post, err := ps.CreatePost(context.Background(), "Без группы", user.ID, nil)
	require.NoError(t, err)

	got, err := ps.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
	assert.Nil(t, got.Group)
}

func TestCreatePostValidation(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "tester")
	ps := NewPostService(db)
	ctx := context.Background()

	_, err := ps.CreatePost(ctx, "   ", user.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	missing := 999
	_, err = ps.CreatePost(ctx, "Text", user.ID, &missing)
	assert.ErrorIs(t, err, ErrGroupNotFound)

	count, err := ps.CountPosts(ctx, models.PostFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetPostNotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := NewPostService(db).GetPost(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	group := createTestGroup(t, db, "test")
	ps := NewPostService(db)
	ctx := context.Background()

	post, err := ps.CreatePost(ctx, "Test text", author.ID, nil)
	require.NoError(t, err)

	ps.now = func() time.Time { return post.PubDate.Add(time.Hour) }

	require.NoError(t, ps.UpdatePost(ctx, post.ID, "Text edit", &group.ID, author.ID))

	got, err := ps.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Text edit", got.Text)
	require.NotNil(t, got.GroupID)
	assert.Equal(t, group.ID, *got.GroupID)
	assert.True(t, post.PubDate.Equal(got.PubDate), "дата публикации не должна меняться")

	assert.ErrorIs(t, ps.UpdatePost(ctx, post.ID, "Чужая правка", nil, other.ID), ErrNotPostAuthor)
	assert.ErrorIs(t, ps.UpdatePost(ctx, 999, "Text", nil, author.ID), ErrPostNotFound)
	assert.ErrorIs(t, ps.UpdatePost(ctx, post.ID, "", nil, author.ID), ErrEmptyText)

	require.NoError(t, ps.UpdatePost(ctx, post.ID, "Снова без группы", nil, author.ID))
	got, err = ps.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)
}

func TestDeletePost(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db, "author")
	other := createTestUser(t, db, "other")
	ps := NewPostService(db)
	ctx := context.Background()

	post, err := ps.CreatePost(ctx, "Test text", author.ID, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, ps.DeletePost(ctx, post.ID, other.ID), ErrNotPostAuthor)
	require.NoError(t, ps.DeletePost(ctx, post.ID, author.ID))
	assert.ErrorIs(t, ps.DeletePost(ctx, post.ID, author.ID), ErrPostNotFound)
}

func TestListPostsFilteringAndOrder(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	group := createTestGroup(t, db, "test")
	empty := createTestGroup(t, db, "empty")
	ps := NewPostService(db)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		ps.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		author := alice
		var groupID *int
		if i%2 == 0 {
			author = bob
			groupID = &group.ID
		}
		_, err := ps.CreatePost(ctx, fmt.Sprintf("Test text %d", i), author.ID, groupID)
		require.NoError(t, err)
	}

	all, err := ps.ListPosts(ctx, models.PostFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 10)
	assert.Equal(t, "Test text 12", all[0].Text)
	assert.Equal(t, "Test text 3", all[9].Text)

	rest, err := ps.ListPosts(ctx, models.PostFilter{}, 10, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 3)

	tests := []struct {
		name   string
		filter models.PostFilter
		want   int
	}{
		{"all", models.PostFilter{}, 13},
		{"group", models.PostFilter{GroupID: &group.ID}, 7},
		{"empty group", models.PostFilter{GroupID: &empty.ID}, 0},
		{"author", models.PostFilter{AuthorID: &alice.ID}, 6},
		{"group and author", models.PostFilter{GroupID: &group.ID, AuthorID: &alice.ID}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := ps.CountPosts(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)

			posts, err := ps.ListPosts(ctx, tt.filter, 100, 0)
			require.NoError(t, err)
			assert.Len(t, posts, tt.want)
		})
	}

	groupPosts, err := ps.ListPosts(ctx, models.PostFilter{GroupID: &group.ID}, 100, 0)
	require.NoError(t, err)
	for _, post := range groupPosts {
		require.NotNil(t, post.Group)
		assert.Equal(t, group.ID, post.Group.ID)
		assert.Equal(t, "bob", post.Author)
	}
}

func TestValidatePostText(t *testing.T) {
	assert.NoError(t, ValidatePostText("Текст"))
	assert.ErrorIs(t, ValidatePostText("\n\t "), ErrEmptyText)
	assert.NoError(t, ValidatePostText(strings.Repeat("Длинный текст ", 5000)))
}
