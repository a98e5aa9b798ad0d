package service

import (
	"context"
	"testing"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitJoinIdempotent(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	first, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, first.Status)

	// 重复提交不产生第二行
	second, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, db.Model(&model.JoinRequest{}).Where("activity_id = ? AND user_id = ?", 10, 2).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSubmitJoinBlockedByHost(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	require.NoError(t, db.Create(&model.UserBlock{BlockerID: 1, BlockedID: 2}).Error)
	svc := NewRequestService(db, nil, nil)

	_, err := svc.SubmitJoin(context.Background(), 10, 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeActionRestricted, apperrors.CodeOf(err))

	// 被拒的提交不落任何行
	var n int64
	require.NoError(t, db.Model(&model.JoinRequest{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestSubmitJoinOwnActivity(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)

	_, err := svc.SubmitJoin(context.Background(), 10, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailure, apperrors.CodeOf(err))
}

func TestSubmitJoinActivityMissing(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 2, "alice")
	svc := NewRequestService(db, nil, nil)

	_, err := svc.SubmitJoin(context.Background(), 999, 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestApproveAdmitsMember(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	membership := NewMembershipService(db, nil, nil)
	ctx := context.Background()

	req, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, req.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, approved.Status)

	// 5人上限、0成员的活动同意1人后：人数1、余4
	proj, err := membership.Project(ctx, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, proj.Count)
	assert.Equal(t, 4, proj.SpotsLeft)

	var act model.Activity
	require.NoError(t, db.First(&act, 10).Error)
	assert.EqualValues(t, 1, act.MemberCount)
}

func TestApproveTwiceIsNoOp(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	req, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, req.ID, 1)
	require.NoError(t, err)

	again, err := svc.Approve(ctx, req.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, again.Status)

	// 计数不被重复同意抬高
	var act model.Activity
	require.NoError(t, db.First(&act, 10).Error)
	assert.EqualValues(t, 1, act.MemberCount)
}

func TestApproveRequiresHost(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedUser(t, db, 3, "mallory")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	req, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, req.ID, 3)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

	_, err = svc.Decline(ctx, req.ID, 3)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestWithdrawIsSilentForOthers(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	req, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)

	// 不是本人的撤回静默成功，状态不变
	require.NoError(t, svc.Withdraw(ctx, req.ID, 99))
	var cur model.JoinRequest
	require.NoError(t, db.First(&cur, req.ID).Error)
	assert.Equal(t, model.RequestStatusPending, cur.Status)

	require.NoError(t, svc.Withdraw(ctx, req.ID, 2))
	require.NoError(t, db.First(&cur, req.ID).Error)
	assert.Equal(t, model.RequestStatusWithdrawn, cur.Status)

	// 非 pending 再撤一次也静默
	require.NoError(t, svc.Withdraw(ctx, req.ID, 2))
}

func TestDeclineProposesBlockAtThreshold(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	seedActivity(t, db, 11, 1, 5)
	seedActivity(t, db, 12, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	for i, activityID := range []uint64{10, 11, 12} {
		req, err := svc.SubmitJoin(ctx, activityID, 2)
		require.NoError(t, err)

		res, err := svc.Decline(ctx, req.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, model.RequestStatusDeclined, res.Request.Status)
		assert.Equal(t, i+1, res.DeclineCount)
		// 恰好第3次才提示，前两次不提示
		assert.Equal(t, i == 2, res.ProposeBlock, "decline %d", i+1)
	}

	assert.Equal(t, 3, svc.DeclineCountOf(1, 2))
}

func TestResubmitAfterDeclineReusesRow(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	req, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	_, err = svc.Decline(ctx, req.ID, 1)
	require.NoError(t, err)

	again, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, req.ID, again.ID)
	assert.Equal(t, model.RequestStatusPending, again.Status)
}

func TestUnblockRestoresSubmit(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	requests := NewRequestService(db, nil, nil)
	blocks := NewBlockService(db)
	ctx := context.Background()

	require.NoError(t, blocks.Block(ctx, 1, 2))
	_, err := requests.SubmitJoin(ctx, 10, 2)
	assert.Equal(t, apperrors.CodeActionRestricted, apperrors.CodeOf(err))

	require.NoError(t, blocks.Unblock(ctx, 1, 2))
	req, err := requests.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, req.Status)
}

func TestLifecycleEventsLandInOutbox(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	req, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, req.ID, 1)
	require.NoError(t, err)

	var events []model.RequestOutbox
	require.NoError(t, db.Order("id").Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventRequestSubmitted, events[0].EventType)
	assert.Equal(t, model.EventRequestApproved, events[1].EventType)
	for _, ev := range events {
		assert.EqualValues(t, 10, ev.ActivityID)
		assert.EqualValues(t, 2, ev.UserID)
	}
}

func TestListIncomingOnlyPending(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedUser(t, db, 3, "bob")
	seedActivity(t, db, 10, 1, 5)
	svc := NewRequestService(db, nil, nil)
	ctx := context.Background()

	reqA, err := svc.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)
	_, err = svc.SubmitJoin(ctx, 10, 3)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, reqA.ID, 1)
	require.NoError(t, err)

	list, err := svc.ListIncoming(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 3, list[0].UserID)
	assert.Equal(t, "bob", list[0].UserName)
	assert.Equal(t, "Saturday hike", list[0].ActivityTitle)
}
