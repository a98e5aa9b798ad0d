package service

import (
	"context"
	"errors"
	"testing"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAI struct {
	verdict *pkg.ModerationResult
	err     error
}

func (f *fakeAI) ModerateActivity(ctx context.Context, title, description string) (*pkg.ModerationResult, error) {
	return f.verdict, f.err
}

func (f *fakeAI) MagicFill(ctx context.Context, input string) (*pkg.MagicFillResult, error) {
	return &pkg.MagicFillResult{Title: "Padel", ParticipantLimit: 4}, nil
}

func (f *fakeAI) SearchActivities(ctx context.Context, query string, activities []pkg.SearchActivity) (*pkg.SearchResult, error) {
	return &pkg.SearchResult{Matches: []string{"1"}}, nil
}

func safeAI() *fakeAI {
	return &fakeAI{verdict: &pkg.ModerationResult{Safe: true}}
}

func validInput() CreateActivityInput {
	return CreateActivityInput{
		Title:            "Padel night",
		Description:      "friendly doubles",
		ParticipantLimit: 4,
		LocationName:     "Court 3",
	}
}

func TestCreateActivityValidation(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	svc := NewActivityService(db, safeAI())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CreateActivityInput)
	}{
		{"empty title", func(in *CreateActivityInput) { in.Title = "  " }},
		{"empty description", func(in *CreateActivityInput) { in.Description = "" }},
		{"empty location", func(in *CreateActivityInput) { in.LocationName = "" }},
		{"zero limit", func(in *CreateActivityInput) { in.ParticipantLimit = 0 }},
		{"bad status", func(in *CreateActivityInput) { in.Status = "archived" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Create(ctx, 1, in)
			assert.Equal(t, apperrors.CodeValidationFailure, apperrors.CodeOf(err))
		})
	}
}

func TestCreateActivityModerationFailClosed(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	// 审查服务挂了：不发布
	svc := NewActivityService(db, &fakeAI{err: errors.New("upstream timeout")})
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, validInput())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeModeration, apperrors.CodeOf(err))

	var n int64
	require.NoError(t, db.Model(&model.Activity{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateActivityModerationRejected(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	reason := "promotes alcohol"
	svc := NewActivityService(db, &fakeAI{verdict: &pkg.ModerationResult{Safe: false, Reason: &reason}})

	_, err := svc.Create(context.Background(), 1, validInput())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeModeration, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "promotes alcohol")
}

func TestCreateActivityDefaultsToOpen(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	svc := NewActivityService(db, safeAI())

	act, err := svc.Create(context.Background(), 1, validInput())
	require.NoError(t, err)
	assert.Equal(t, model.ActivityStatusOpen, act.Status)
	assert.NotZero(t, act.ID)
}

func TestActivityViewsCarryHostProfile(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&model.User{ID: 1, Username: "host", Password: "x", Email: "h@example.com", FullName: "Thabo N"}).Error)
	svc := NewActivityService(db, safeAI())
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, validInput())
	require.NoError(t, err)

	list, err := svc.List(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Thabo N", list[0].HostName)
	assert.Equal(t, 4, list[0].SpotsLeft)
}

func TestCompleteActivityStopsJoins(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	activities := NewActivityService(db, safeAI())
	requests := NewRequestService(db, nil, nil)
	ctx := context.Background()

	// 只有主办方能结束
	err := activities.Complete(ctx, 10, 2)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))

	require.NoError(t, activities.Complete(ctx, 10, 1))

	_, err = requests.SubmitJoin(ctx, 10, 2)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidationFailure, apperrors.CodeOf(err))
}

func TestListJoinedAndPendingBadge(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, 1, "host")
	seedUser(t, db, 2, "alice")
	seedActivity(t, db, 10, 1, 5)
	activities := NewActivityService(db, safeAI())
	requests := NewRequestService(db, nil, nil)
	ctx := context.Background()

	req, err := requests.SubmitJoin(ctx, 10, 2)
	require.NoError(t, err)

	// 待审请求在主办方列表上计数
	mine, err := activities.ListByHost(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.EqualValues(t, 1, mine[0].PendingRequests)

	// 还没被同意就不算已加入
	joined, err := activities.ListJoined(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, joined)

	_, err = requests.Approve(ctx, req.ID, 1)
	require.NoError(t, err)

	joined, err = activities.ListJoined(ctx, 2)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.EqualValues(t, 10, joined[0].ID)
}
