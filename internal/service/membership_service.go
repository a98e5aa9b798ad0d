package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/repository/mysql"
	"Hingaa_Server/internal/repository/redis"

	"gorm.io/gorm"
)

// MembershipService 成员投影：在籍名单、人数、剩余名额
type MembershipService struct {
	memberRepo   *mysql.ActivityMemberRepository
	activityRepo *mysql.ActivityRepository
	cache        MemberCountCache
	feed         FeedPublisher
}

func NewMembershipService(db *gorm.DB, feed FeedPublisher, cache MemberCountCache) *MembershipService {
	return &MembershipService{
		memberRepo:   &mysql.ActivityMemberRepository{DB: db},
		activityRepo: &mysql.ActivityRepository{DB: db},
		cache:        cache,
		feed:         feed,
	}
}

// MemberView 投影后的成员展示行
type MemberView struct {
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Role   int    `json:"role"`
}

// Projection 活动的成员投影
type Projection struct {
	Members   []MemberView `json:"members"`
	Count     int64        `json:"count"`
	SpotsLeft int          `json:"spots_left"`
}

// DisplayName 资料缺失时的兜底展示名
func DisplayName(u model.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return "New user"
}

// AvatarURL 无头像时按用户ID生成确定性占位图
func AvatarURL(u model.User) string {
	if u.AvatarURL != "" {
		return u.AvatarURL
	}
	return fmt.Sprintf("https://picsum.photos/seed/%d/100/100", u.ID)
}

// SpotsLeft 剩余名额，永不为负。超员只会显示0，不在这里拦截。
func SpotsLeft(capacity int, active int64) int {
	left := capacity - int(active)
	if left < 0 {
		return 0
	}
	return left
}

// Project 重新推导某活动的在籍名单和人数。
// 每次全量重查而不是应用增量，乱序到达的变更通知不会算错。
func (s *MembershipService) Project(ctx context.Context, activityID uint64) (*Projection, error) {
	act, err := s.activityRepo.FindByID(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("activity not found")
		}
		return nil, apperrors.RemoteOperation("project failed", err)
	}

	rows, err := s.memberRepo.ListActive(ctx, activityID)
	if err != nil {
		return nil, apperrors.RemoteOperation("project failed", err)
	}

	members := make([]MemberView, 0, len(rows))
	for _, row := range rows {
		u := model.User{ID: row.UserID, FullName: row.FullName, AvatarURL: row.AvatarURL}
		members = append(members, MemberView{
			UserID: row.UserID,
			Name:   DisplayName(u),
			Avatar: AvatarURL(u),
			Role:   row.Role,
		})
	}

	count := int64(len(members))
	if s.cache != nil {
		_ = s.cache.SetCount(ctx, activityID, count)
	}

	return &Projection{
		Members:   members,
		Count:     count,
		SpotsLeft: SpotsLeft(act.ParticipantLimit, count),
	}, nil
}

// ActiveCount 人数快路径：缓存命中直接返回，miss 在重建锁保护下回源回填
func (s *MembershipService) ActiveCount(ctx context.Context, activityID uint64) (int64, error) {
	load := func(ctx context.Context) (int64, error) {
		return s.memberRepo.CountActive(ctx, activityID)
	}
	if s.cache != nil {
		cnt, err := s.cache.GetOrRebuild(ctx, activityID, load)
		if err != nil {
			return 0, apperrors.RemoteOperation("count failed", err)
		}
		return cnt, nil
	}
	cnt, err := load(ctx)
	if err != nil {
		return 0, apperrors.RemoteOperation("count failed", err)
	}
	return cnt, nil
}

// RemoveMember 主办方移除成员（软移除）。重复移除幂等。
func (s *MembershipService) RemoveMember(ctx context.Context, activityID, memberID, hostID uint64) error {
	realHost, err := s.activityRepo.HostOf(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("activity not found")
		}
		return apperrors.RemoteOperation("remove failed", err)
	}
	if realHost != hostID {
		return apperrors.PermissionDenied("only the host can remove members")
	}

	changed, err := s.memberRepo.Remove(ctx, activityID, memberID)
	if err != nil {
		return apperrors.RemoteOperation("remove failed", err)
	}
	if !changed {
		return nil
	}

	if s.cache != nil {
		_ = s.cache.DeleteCount(ctx, activityID, time.Second)
	}
	if s.feed != nil {
		_ = s.feed.Publish(ctx, redis.ActivityChannel(activityID), redis.FeedEvent{
			Type: model.EventMemberRemoved, ActivityID: activityID, UserID: memberID,
		})
	}
	return nil
}

// IsMemberOrHost 群聊准入：在籍成员或主办方
func (s *MembershipService) IsMemberOrHost(ctx context.Context, activityID, userID uint64) (bool, error) {
	host, err := s.activityRepo.HostOf(activityID)
	if err != nil {
		return false, err
	}
	if host == userID {
		return true, nil
	}
	return s.memberRepo.IsActiveMember(ctx, activityID, userID)
}
