package service

import (
	"context"
	"testing"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlockService(db)
	ctx := context.Background()

	err := svc.Block(ctx, 1, 1)
	assert.Equal(t, apperrors.CodeValidationFailure, apperrors.CodeOf(err))

	err = svc.Block(ctx, 0, 2)
	assert.Equal(t, apperrors.CodeValidationFailure, apperrors.CodeOf(err))
}

func TestBlockIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	svc := NewBlockService(db)
	ctx := context.Background()

	require.NoError(t, svc.Block(ctx, 1, 2))
	require.NoError(t, svc.Block(ctx, 1, 2))

	var n int64
	require.NoError(t, db.Model(&model.UserBlock{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	blocked, err := svc.IsBlocked(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, blocked)

	// 单向关系：反方向不受影响
	blocked, err = svc.IsBlocked(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, svc.Unblock(ctx, 1, 2))
	require.NoError(t, svc.Unblock(ctx, 1, 2))
	blocked, err = svc.IsBlocked(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlockListNames(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	require.NoError(t, db.Create(&model.User{ID: 2, Username: "alice", Password: "x", Email: "a@example.com", FullName: "Alice M"}).Error)
	svc := NewBlockService(db)
	ctx := context.Background()

	require.NoError(t, svc.Block(ctx, 1, 2))
	// 资料已不存在的用户仍留在名单里，用占位名
	require.NoError(t, svc.Block(ctx, 1, 99))

	list, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[uint64]string{}
	for _, v := range list {
		byID[v.ID] = v.Name
	}
	assert.Equal(t, "Alice M", byID[2])
	assert.Equal(t, "Blocked user", byID[99])
}
