package service

import (
	"context"
	"strings"
	"time"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/repository/mysql"
	"Hingaa_Server/internal/repository/redis"

	"gorm.io/gorm"
)

// MessageService 活动群聊，只追加，按创建时间排序
type MessageService struct {
	repo       *mysql.MessageRepository
	userRepo   *mysql.UserRepository
	membership *MembershipService
	feed       FeedPublisher
}

func NewMessageService(db *gorm.DB, membership *MembershipService, feed FeedPublisher) *MessageService {
	return &MessageService{
		repo:       &mysql.MessageRepository{DB: db},
		userRepo:   &mysql.UserRepository{DB: db},
		membership: membership,
		feed:       feed,
	}
}

// MessageView 群聊消息展示行
type MessageView struct {
	ID           uint64    `json:"id"`
	ActivityID   uint64    `json:"activity_id"`
	SenderID     uint64    `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	SenderAvatar string    `json:"sender_avatar"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

// Post 发消息。仅在籍成员和主办方可发。
func (s *MessageService) Post(ctx context.Context, activityID, senderID uint64, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ValidationFailure("message content required")
	}

	ok, err := s.membership.IsMemberOrHost(ctx, activityID, senderID)
	if err != nil {
		return nil, apperrors.RemoteOperation("post failed", err)
	}
	if !ok {
		return nil, apperrors.PermissionDenied("not a member of this activity")
	}

	msg := &model.Message{
		ActivityID: activityID,
		SenderID:   senderID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, apperrors.RemoteOperation("post failed", err)
	}

	if s.feed != nil {
		_ = s.feed.Publish(ctx, redis.ActivityChannel(activityID), redis.FeedEvent{
			Type: "message_created", ActivityID: activityID, UserID: senderID,
		})
	}
	return msg, nil
}

// List 拉取群聊时间线。准入与发消息相同。
func (s *MessageService) List(ctx context.Context, activityID, userID uint64, limit int) ([]MessageView, error) {
	ok, err := s.membership.IsMemberOrHost(ctx, activityID, userID)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	if !ok {
		return nil, apperrors.PermissionDenied("not a member of this activity")
	}

	rows, err := s.repo.ListByActivity(ctx, activityID, limit)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}

	ids := make([]uint64, 0, len(rows))
	for _, m := range rows {
		ids = append(ids, m.SenderID)
	}
	users, _ := s.userRepo.FindByIDs(ids)
	byID := make(map[uint64]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]MessageView, 0, len(rows))
	for _, m := range rows {
		sender := byID[m.SenderID]
		if sender.ID == 0 {
			sender.ID = m.SenderID
		}
		views = append(views, MessageView{
			ID:           m.ID,
			ActivityID:   m.ActivityID,
			SenderID:     m.SenderID,
			SenderName:   DisplayName(sender),
			SenderAvatar: AvatarURL(sender),
			Content:      m.Content,
			CreatedAt:    m.CreatedAt,
		})
	}
	return views, nil
}
