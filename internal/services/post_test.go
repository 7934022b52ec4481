package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialhub/internal/domain"
)

func newTestPostService() (domain.PostService, *fakePostRepo, *fakeLikeRepo) {
	posts := newFakePostRepo(&domain.Post{ID: 1, Content: "first", Author: domain.UserSimplified{ID: 10}})
	likes := newFakeLikeRepo()
	return NewPostService(posts, likes, &fakeSavedRepo{}, testTimeout), posts, likes
}

func TestPostService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPostService()

	post, err := svc.Create(ctx, 10, strPtr("  "), "  body ")
	require.NoError(t, err)
	assert.Nil(t, post.Title, "blank title is stored as null")
	assert.Equal(t, "body", post.Content)
	assert.Equal(t, int64(10), post.Author.ID)

	_, err = svc.Create(ctx, 10, nil, " ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPostService_AuthorOnly(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int64
		postID  int64
		wantErr error
	}{
		{name: "author", userID: 10, postID: 1},
		{name: "someone else", userID: 11, postID: 1, wantErr: domain.ErrForbidden},
		{name: "missing post", userID: 10, postID: 99, wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, posts, _ := newTestPostService()
			err := svc.Update(ctx, tt.postID, tt.userID, nil, strPtr("edited"))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.ErrorIs(t, svc.Delete(ctx, tt.postID, tt.userID), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "edited", *posts.updated[tt.postID][1])
			require.NoError(t, svc.Delete(ctx, tt.postID, tt.userID))
			assert.NotContains(t, posts.posts, tt.postID)
		})
	}
}

func TestPostService_Likes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPostService()

	require.NoError(t, svc.Like(ctx, 1, 20))
	require.ErrorIs(t, svc.Like(ctx, 1, 20), domain.ErrAlreadyLiked)
	require.ErrorIs(t, svc.Like(ctx, 99, 20), domain.ErrNotFound)
	require.NoError(t, svc.Like(ctx, 1, 21))

	liked, err := svc.IsLiked(ctx, 1, 20)
	require.NoError(t, err)
	assert.True(t, liked)

	likes, err := svc.ListLikes(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, likes.Total)
	assert.Equal(t, int64(1), likes.PostID)

	require.NoError(t, svc.Unlike(ctx, 1, 20))
	require.ErrorIs(t, svc.Unlike(ctx, 1, 20), domain.ErrNotFound)

	none, err := svc.ListLikes(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, none.Total)
}

func TestPostService_Bookmarks(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestPostService()

	require.NoError(t, svc.Save(ctx, 1, 20))
	require.ErrorIs(t, svc.Save(ctx, 1, 20), domain.ErrDuplicate)
	require.ErrorIs(t, svc.Save(ctx, 99, 20), domain.ErrNotFound)

	saved, err := svc.IsSaved(ctx, 1, 20)
	require.NoError(t, err)
	assert.True(t, saved)

	require.NoError(t, svc.Unsave(ctx, 1, 20))
	saved, err = svc.IsSaved(ctx, 1, 20)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestPostService_List(t *testing.T) {
	svc, posts, _ := newTestPostService()

	res, err := svc.List(context.Background(), domain.PostFilter{FollowedBy: 20}, 20, domain.PageRequest{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 1, res.Len())
	assert.Equal(t, int64(20), posts.lastList.FollowedBy)
}
