package service

import (
	"context"
	"errors"
	"time"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/repository/mysql"
	"Hingaa_Server/internal/repository/redis"

	"gorm.io/gorm"
)

// RequestService 加入请求生命周期管理：提交、撤回、同意、拒绝，
// 以及拒绝计数到阈值时的拉黑提议。
type RequestService struct {
	repo         *mysql.JoinRequestRepository
	activityRepo *mysql.ActivityRepository
	blockRepo    *mysql.UserBlockRepository
	userRepo     *mysql.UserRepository
	counter      *DeclineCounter
	feed         FeedPublisher
	cache        MemberCountCache
}

func NewRequestService(db *gorm.DB, feed FeedPublisher, cache MemberCountCache) *RequestService {
	return &RequestService{
		repo:         &mysql.JoinRequestRepository{DB: db},
		activityRepo: &mysql.ActivityRepository{DB: db},
		blockRepo:    &mysql.UserBlockRepository{DB: db},
		userRepo:     &mysql.UserRepository{DB: db},
		counter:      NewDeclineCounter(),
		feed:         feed,
		cache:        cache,
	}
}

// DeclineResult 拒绝的返回：新计数与是否弹拉黑确认
type DeclineResult struct {
	Request      *model.JoinRequest
	DeclineCount int
	ProposeBlock bool
}

// SubmitJoin 黑名单检查通过后幂等写入 pending 请求。
// 被主办方拉黑时直接拒绝，不落任何行。
func (s *RequestService) SubmitJoin(ctx context.Context, activityID, requesterID uint64) (*model.JoinRequest, error) {
	if activityID == 0 || requesterID == 0 {
		return nil, apperrors.ValidationFailure("invalid id")
	}

	act, err := s.activityRepo.FindByID(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("activity not found")
		}
		return nil, apperrors.RemoteOperation("submit failed", err)
	}
	hostID := act.HostID
	if hostID == requesterID {
		return nil, apperrors.ValidationFailure("host cannot join own activity")
	}
	if act.Status == model.ActivityStatusCompleted {
		return nil, apperrors.ValidationFailure("activity already completed")
	}

	blocked, err := s.blockRepo.Exists(ctx, hostID, requesterID)
	if err != nil {
		return nil, apperrors.RemoteOperation("submit failed", err)
	}
	if blocked {
		return nil, apperrors.ActionRestricted("you cannot join activities organized by this user")
	}

	req, err := s.repo.Upsert(ctx, activityID, requesterID, hostID)
	if err != nil {
		return nil, apperrors.RemoteOperation("submit failed", err)
	}

	s.publish(ctx, redis.HostRequestChannel(hostID), redis.FeedEvent{
		Type: model.EventRequestSubmitted, ActivityID: activityID, RequestID: req.ID, UserID: requesterID,
	})
	s.publish(ctx, redis.UserRequestChannel(requesterID), redis.FeedEvent{
		Type: model.EventRequestSubmitted, ActivityID: activityID, RequestID: req.ID, UserID: requesterID,
	})
	return req, nil
}

// Withdraw 请求者撤回 pending 请求。非本人或非 pending 静默忽略。
func (s *RequestService) Withdraw(ctx context.Context, requestID, userID uint64) error {
	if err := s.repo.Withdraw(ctx, requestID, userID); err != nil {
		return apperrors.RemoteOperation("withdraw failed", err)
	}
	s.publish(ctx, redis.UserRequestChannel(userID), redis.FeedEvent{
		Type: model.EventRequestWithdrawn, RequestID: requestID, UserID: userID,
	})
	return nil
}

// Approve 同意请求。事务内完成状态迁移和成员激活；
// 对已 approved 的请求重复同意是无操作成功。
func (s *RequestService) Approve(ctx context.Context, requestID, hostID uint64) (*model.JoinRequest, error) {
	req, err := s.repo.Approve(ctx, requestID, hostID)
	if err != nil {
		switch {
		case errors.Is(err, mysql.ErrNotActivityHost):
			return nil, apperrors.PermissionDenied("only the host can approve requests")
		case errors.Is(err, mysql.ErrRequestNotPending):
			// 已经 approved 的重复提交按无操作处理
			cur, ferr := s.repo.FindByID(ctx, requestID)
			if ferr == nil && cur.Status == model.RequestStatusApproved {
				return cur, nil
			}
			return nil, apperrors.RemoteOperation("request is not pending", err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.NotFound("request not found")
		default:
			return nil, apperrors.RemoteOperation("approve failed", err)
		}
	}

	if s.cache != nil {
		_ = s.cache.DeleteCount(ctx, req.ActivityID, time.Second)
	}
	s.publish(ctx, redis.UserRequestChannel(req.UserID), redis.FeedEvent{
		Type: model.EventRequestApproved, ActivityID: req.ActivityID, RequestID: req.ID, UserID: req.UserID,
	})
	s.publish(ctx, redis.ActivityChannel(req.ActivityID), redis.FeedEvent{
		Type: model.EventRequestApproved, ActivityID: req.ActivityID, RequestID: req.ID, UserID: req.UserID,
	})
	return req, nil
}

// Decline 拒绝请求并递增 (host, requester) 连续拒绝计数。
// 计数恰好到达阈值的那一次返回 ProposeBlock=true，之后不再提示。
func (s *RequestService) Decline(ctx context.Context, requestID, hostID uint64) (*DeclineResult, error) {
	req, err := s.repo.Decline(ctx, requestID, hostID)
	if err != nil {
		switch {
		case errors.Is(err, mysql.ErrNotActivityHost):
			return nil, apperrors.PermissionDenied("only the host can decline requests")
		case errors.Is(err, mysql.ErrRequestNotPending):
			return nil, apperrors.RemoteOperation("request is not pending", err)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperrors.NotFound("request not found")
		default:
			return nil, apperrors.RemoteOperation("decline failed", err)
		}
	}

	count := s.counter.Increment(hostID, req.UserID)
	s.publish(ctx, redis.UserRequestChannel(req.UserID), redis.FeedEvent{
		Type: model.EventRequestDeclined, ActivityID: req.ActivityID, RequestID: req.ID, UserID: req.UserID,
	})

	return &DeclineResult{
		Request:      req,
		DeclineCount: count,
		ProposeBlock: count == BlockProposalThreshold,
	}, nil
}

// OutgoingRequestView 请求者视角的待审请求
type OutgoingRequestView struct {
	ID            uint64    `json:"id"`
	ActivityID    uint64    `json:"activity_id"`
	ActivityTitle string    `json:"activity_title"`
	Location      string    `json:"location"`
	ImageURL      string    `json:"image_url"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// IncomingRequestView 主办方视角的待审请求
type IncomingRequestView struct {
	ID            uint64    `json:"id"`
	ActivityID    uint64    `json:"activity_id"`
	ActivityTitle string    `json:"activity_title"`
	UserID        uint64    `json:"user_id"`
	UserName      string    `json:"user_name"`
	Avatar        string    `json:"avatar"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListOutgoing 我发出的 pending 请求，带活动摘要
func (s *RequestService) ListOutgoing(ctx context.Context, userID uint64) ([]OutgoingRequestView, error) {
	rows, err := s.repo.ListOutgoing(ctx, userID)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}

	views := make([]OutgoingRequestView, 0, len(rows))
	for _, req := range rows {
		v := OutgoingRequestView{
			ID:         req.ID,
			ActivityID: req.ActivityID,
			Status:     req.Status,
			CreatedAt:  req.CreatedAt,
		}
		if act, err := s.activityRepo.FindByID(req.ActivityID); err == nil {
			v.ActivityTitle = act.Title
			v.Location = act.LocationName
			v.ImageURL = act.ImageURL
		}
		views = append(views, v)
	}
	return views, nil
}

// ListIncoming 我主办的活动收到的 pending 请求，带请求者资料
func (s *RequestService) ListIncoming(ctx context.Context, hostID uint64) ([]IncomingRequestView, error) {
	rows, err := s.repo.ListIncoming(ctx, hostID)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}

	ids := make([]uint64, 0, len(rows))
	for _, req := range rows {
		ids = append(ids, req.UserID)
	}
	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	byID := make(map[uint64]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]IncomingRequestView, 0, len(rows))
	for _, req := range rows {
		v := IncomingRequestView{
			ID:         req.ID,
			ActivityID: req.ActivityID,
			UserID:     req.UserID,
			UserName:   DisplayName(byID[req.UserID]),
			Avatar:     AvatarURL(byID[req.UserID]),
			CreatedAt:  req.CreatedAt,
		}
		if act, err := s.activityRepo.FindByID(req.ActivityID); err == nil {
			v.ActivityTitle = act.Title
		}
		views = append(views, v)
	}
	return views, nil
}

// DeclineCountOf 当前会话内某请求者的连续拒绝计数
func (s *RequestService) DeclineCountOf(hostID, requesterID uint64) int {
	return s.counter.Count(hostID, requesterID)
}

func (s *RequestService) publish(ctx context.Context, channel string, ev redis.FeedEvent) {
	if s.feed == nil {
		return
	}
	_ = s.feed.Publish(ctx, channel, ev)
}
