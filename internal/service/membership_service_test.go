package service

import (
	"context"
	"testing"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpotsLeftNeverNegative(t *testing.T) {
	assert.Equal(t, 4, SpotsLeft(5, 1))
	assert.Equal(t, 0, SpotsLeft(5, 5))
	// 超员只显示0，不在投影里报错
	assert.Equal(t, 0, SpotsLeft(5, 7))
}

func TestDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "Alice M", DisplayName(model.User{FullName: "Alice M", Username: "alice"}))
	assert.Equal(t, "alice", DisplayName(model.User{Username: "alice"}))
	assert.Equal(t, "New user", DisplayName(model.User{}))
}

func TestAvatarPlaceholderDeterministic(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/a.png", AvatarURL(model.User{ID: 7, AvatarURL: "https://cdn.example.com/a.png"}))
	// 同一用户永远得到同一张占位图
	assert.Equal(t, "https://picsum.photos/seed/7/100/100", AvatarURL(model.User{ID: 7}))
}

func TestProjectAndRemove(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedUser(t, db, 3, "bob")
	seedActivity(t, db, 10, 1, 5)
	requests := NewRequestService(db, nil, nil)
	membership := NewMembershipService(db, nil, nil)
	ctx := context.Background()

	for _, uid := range []uint64{2, 3} {
		req, err := requests.SubmitJoin(ctx, 10, uid)
		require.NoError(t, err)
		_, err = requests.Approve(ctx, req.ID, 1)
		require.NoError(t, err)
	}

	proj, err := membership.Project(ctx, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, proj.Count)
	assert.Equal(t, 3, proj.SpotsLeft)
	require.Len(t, proj.Members, 2)

	// 非主办方移除被拒
	err = membership.RemoveMember(ctx, 10, 2, 3)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

	require.NoError(t, membership.RemoveMember(ctx, 10, 2, 1))
	proj, err = membership.Project(ctx, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, proj.Count)

	// 重复移除幂等，计数不会降到错的值
	require.NoError(t, membership.RemoveMember(ctx, 10, 2, 1))
	var act model.Activity
	require.NoError(t, db.First(&act, 10).Error)
	assert.EqualValues(t, 1, act.MemberCount)
}

func TestIsMemberOrHost(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedUser(t, db, 3, "bob")
	seedActivity(t, db, 10, 1, 5)
	requests := NewRequestService(db, nil, nil)
	membership := NewMembershipService(db, nil, nil)
	ctx := context.Background()

	ok, err := membership.IsMemberOrHost(ctx, 10, 1)
	require.NoError(t, err)
	assert.True(t, ok, "host is always admitted")

	ok, err = membership.IsMemberOrHost(ctx, 10, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	req, err := requests.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	_, err = requests.Approve(ctx, req.ID, 1)
	require.NoError(t, err)

	ok, err = membership.IsMemberOrHost(ctx, 10, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}
