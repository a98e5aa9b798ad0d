package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"Hingaa_Server/internal/apperrors"
	"Hingaa_Server/internal/model"
	"Hingaa_Server/internal/pkg"
	"Hingaa_Server/internal/repository/mysql"

	"gorm.io/gorm"
)

// AIClient 内容审查/解析/搜索，外部依赖可能不可用
type AIClient interface {
	ModerateActivity(ctx context.Context, title, description string) (*pkg.ModerationResult, error)
	MagicFill(ctx context.Context, input string) (*pkg.MagicFillResult, error)
	SearchActivities(ctx context.Context, query string, activities []pkg.SearchActivity) (*pkg.SearchResult, error)
}

type ActivityService struct {
	repo        *mysql.ActivityRepository
	userRepo    *mysql.UserRepository
	memberRepo  *mysql.ActivityMemberRepository
	requestRepo *mysql.JoinRequestRepository
	ai          AIClient
}

func NewActivityService(db *gorm.DB, ai AIClient) *ActivityService {
	return &ActivityService{
		repo:        &mysql.ActivityRepository{DB: db},
		userRepo:    &mysql.UserRepository{DB: db},
		memberRepo:  &mysql.ActivityMemberRepository{DB: db},
		requestRepo: &mysql.JoinRequestRepository{DB: db},
		ai:          ai,
	}
}

type CreateActivityInput struct {
	Title            string
	Description      string
	Category         string
	ParticipantLimit int
	ActivityDate     *time.Time
	ActivityTime     string
	LocationName     string
	Latitude         *float64
	Longitude        *float64
	ImageURL         string
	Status           string
}

// ActivityView 列表/详情展示行
type ActivityView struct {
	ID               uint64     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	ParticipantLimit int        `json:"participant_limit"`
	ActivityDate     *time.Time `json:"activity_date"`
	ActivityTime     string     `json:"activity_time"`
	LocationName     string     `json:"location_name"`
	Latitude         *float64   `json:"latitude"`
	Longitude        *float64   `json:"longitude"`
	ImageURL         string     `json:"image_url"`
	Status           string     `json:"status"`
	HostID           uint64     `json:"host_id"`
	HostName         string     `json:"host_name"`
	HostAvatar       string     `json:"host_avatar"`
	MemberCount      int64      `json:"member_count"`
	SpotsLeft        int        `json:"spots_left"`
	PendingRequests  int64      `json:"pending_requests,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Create 建活动。必填校验在前，内容审查在后；
// 审查服务不可用时发布失败（fail-closed），内容不落库。
func (s *ActivityService) Create(ctx context.Context, hostID uint64, in CreateActivityInput) (*model.Activity, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperrors.ValidationFailure("title required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperrors.ValidationFailure("description required")
	}
	if strings.TrimSpace(in.LocationName) == "" {
		return nil, apperrors.ValidationFailure("location required")
	}
	if in.ParticipantLimit <= 0 {
		return nil, apperrors.ValidationFailure("participant limit must be positive")
	}
	status := in.Status
	if status == "" {
		status = model.ActivityStatusOpen
	}
	if status != model.ActivityStatusOpen && status != model.ActivityStatusRequestOnly {
		return nil, apperrors.ValidationFailure("invalid status")
	}

	if s.ai != nil {
		verdict, err := s.ai.ModerateActivity(ctx, in.Title, in.Description)
		if err != nil {
			return nil, apperrors.Moderation("content review unavailable", err)
		}
		if !verdict.Safe {
			reason := "content rejected"
			if verdict.Reason != nil {
				reason = *verdict.Reason
			}
			return nil, apperrors.Moderation(reason, nil)
		}
	}

	act := &model.Activity{
		HostID:           hostID,
		Title:            in.Title,
		Description:      in.Description,
		Category:         in.Category,
		ParticipantLimit: in.ParticipantLimit,
		ActivityDate:     in.ActivityDate,
		ActivityTime:     in.ActivityTime,
		LocationName:     in.LocationName,
		Latitude:         in.Latitude,
		Longitude:        in.Longitude,
		ImageURL:         in.ImageURL,
		Status:           status,
	}
	if _, err := s.repo.Create(act); err != nil {
		return nil, apperrors.RemoteOperation("create failed", err)
	}
	return act, nil
}

// List 发现页分页列表
func (s *ActivityService) List(ctx context.Context, page, size int) ([]ActivityView, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	rows, err := s.repo.List((page-1)*size, size)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	return s.toViews(rows), nil
}

// ListByHost 我主办的活动，带每个活动的待审请求数
func (s *ActivityService) ListByHost(ctx context.Context, hostID uint64) ([]ActivityView, error) {
	rows, err := s.repo.ListByHost(hostID)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	views := s.toViews(rows)
	for i := range views {
		if n, err := s.requestRepo.CountByStatus(ctx, views[i].ID, model.RequestStatusPending); err == nil {
			views[i].PendingRequests = n
		}
	}
	return views, nil
}

// ListJoined 我作为成员在籍的活动
func (s *ActivityService) ListJoined(ctx context.Context, userID uint64) ([]ActivityView, error) {
	ids, err := s.memberRepo.ListActivityIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	if len(ids) == 0 {
		return []ActivityView{}, nil
	}
	rows, err := s.repo.FindByIDs(ids)
	if err != nil {
		return nil, apperrors.RemoteOperation("list failed", err)
	}
	return s.toViews(rows), nil
}

// Complete 主办方结束活动，不再接收加入请求
func (s *ActivityService) Complete(ctx context.Context, activityID, hostID uint64) error {
	realHost, err := s.repo.HostOf(activityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("activity not found")
		}
		return apperrors.RemoteOperation("complete failed", err)
	}
	if realHost != hostID {
		return apperrors.PermissionDenied("only the host can complete the activity")
	}
	if err := s.repo.UpdateStatus(activityID, model.ActivityStatusCompleted); err != nil {
		return apperrors.RemoteOperation("complete failed", err)
	}
	return nil
}

func (s *ActivityService) Get(ctx context.Context, id uint64) (*ActivityView, error) {
	act, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("activity not found")
		}
		return nil, apperrors.RemoteOperation("get failed", err)
	}
	views := s.toViews([]model.Activity{*act})
	return &views[0], nil
}

// MagicFill 自然语言填表
func (s *ActivityService) MagicFill(ctx context.Context, input string) (*pkg.MagicFillResult, error) {
	if s.ai == nil {
		return nil, apperrors.Moderation("ai service unavailable", nil)
	}
	out, err := s.ai.MagicFill(ctx, input)
	if err != nil {
		return nil, apperrors.Moderation("could not parse input", err)
	}
	return out, nil
}

// Search 语义搜索，候选集来自当前列表
func (s *ActivityService) Search(ctx context.Context, query string, candidates []pkg.SearchActivity) (*pkg.SearchResult, error) {
	if s.ai == nil {
		return nil, apperrors.Moderation("ai service unavailable", nil)
	}
	out, err := s.ai.SearchActivities(ctx, query, candidates)
	if err != nil {
		return nil, apperrors.Moderation("search failed", err)
	}
	return out, nil
}

func (s *ActivityService) toViews(rows []model.Activity) []ActivityView {
	ids := make([]uint64, 0, len(rows))
	for _, a := range rows {
		ids = append(ids, a.HostID)
	}
	hosts, _ := s.userRepo.FindByIDs(ids)
	byID := make(map[uint64]model.User, len(hosts))
	for _, u := range hosts {
		byID[u.ID] = u
	}

	views := make([]ActivityView, 0, len(rows))
	for _, a := range rows {
		host := byID[a.HostID]
		if host.ID == 0 {
			host.ID = a.HostID
		}
		views = append(views, ActivityView{
			ID:               a.ID,
			Title:            a.Title,
			Description:      a.Description,
			Category:         a.Category,
			ParticipantLimit: a.ParticipantLimit,
			ActivityDate:     a.ActivityDate,
			ActivityTime:     a.ActivityTime,
			LocationName:     a.LocationName,
			Latitude:         a.Latitude,
			Longitude:        a.Longitude,
			ImageURL:         a.ImageURL,
			Status:           a.Status,
			HostID:           a.HostID,
			HostName:         DisplayName(host),
			HostAvatar:       AvatarURL(host),
			MemberCount:      a.MemberCount,
			SpotsLeft:        SpotsLeft(a.ParticipantLimit, a.MemberCount),
			CreatedAt:        a.CreatedAt,
		})
	}
	return views
}
