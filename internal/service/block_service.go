package service

import (
	"context"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/repository/mysql"

	"gorm.io/gorm"
)

// BlockService 拉黑关系维护。只在 SubmitJoin 处生效，
// 已存在的 pending/approved 请求不回溯取消。
type BlockService struct {
	repo     *mysql.UserBlockRepository
	userRepo *mysql.UserRepository
}

func NewBlockService(db *gorm.DB) *BlockService {
	return &BlockService{
		repo:     &mysql.UserBlockRepository{DB: db},
		userRepo: &mysql.UserRepository{DB: db},
	}
}

// BlockedUserView 黑名单展示行
type BlockedUserView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Block 幂等拉黑
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID uint64) error {
	if blockerID == 0 || blockedID == 0 {
		return apperrors.ValidationFailure("invalid user id")
	}
	if blockerID == blockedID {
		return apperrors.ValidationFailure("cannot block self")
	}
	if err := s.repo.Upsert(ctx, blockerID, blockedID); err != nil {
		return apperrors.RemoteOperation("block failed", err)
	}
	return nil
}

// Unblock 幂等解除，不通知被解除者
func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID uint64) error {
	if blockerID == 0 || blockedID == 0 {
		return apperrors.ValidationFailure("invalid user id")
	}
	if err := s.repo.Delete(ctx, blockerID, blockedID); err != nil {
		return apperrors.RemoteOperation("unblock failed", err)
	}
	return nil
}

func (s *BlockService) IsBlocked(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	return s.repo.Exists(ctx, blockerID, blockedID)
}

// List 黑名单，带展示名，资料缺失时用占位名
func (s *BlockService) List(ctx context.Context, blockerID uint64) ([]BlockedUserView, error) {
	ids, err := s.repo.ListBlockedIDs(ctx, blockerID)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	if len(ids) == 0 {
		return []BlockedUserView{}, nil
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	byID := make(map[uint64]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]BlockedUserView, 0, len(ids))
	for _, id := range ids {
		name := "Blocked user"
		if u, ok := byID[id]; ok && DisplayName(u) != "New user" {
			name = DisplayName(u)
		}
		views = append(views, BlockedUserView{ID: id, Name: name})
	}
	return views, nil
}
