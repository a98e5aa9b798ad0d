package handler

import (
	"net/http"
	"strconv"
	"time"

	"Hingaa_Server/internal/pkg"
	"Hingaa_Server/internal/service"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	svc        *service.ActivityService
	membership *service.MembershipService
}

type ActivityCreateReq struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Category         string   `json:"category"`
	ParticipantLimit int      `json:"participant_limit"`
	ActivityDate     string   `json:"activity_date"` // YYYY-MM-DD，空为待定
	ActivityTime     string   `json:"activity_time"` // HH:MM
	LocationName     string   `json:"location_name"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	ImageURL         string   `json:"image_url"`
	Status           string   `json:"status"`
}

type MagicFillReq struct {
	Input string `json:"input" binding:"required"`
}

type SearchReq struct {
	Query string `json:"query" binding:"required"`
}

func NewActivityHandler(svc *service.ActivityService, membership *service.MembershipService) *ActivityHandler {
	return &ActivityHandler{svc: svc, membership: membership}
}

// Create 建活动，审查不通过或审查服务不可用都不发布
func (h *ActivityHandler) Create(c *gin.Context) {
	uid := userIDFromCtx(c)

	var req ActivityCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	in := service.CreateActivityInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		ParticipantLimit: req.ParticipantLimit,
		ActivityTime:     req.ActivityTime,
		LocationName:     req.LocationName,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		ImageURL:         req.ImageURL,
		Status:           req.Status,
	}
	if req.ActivityDate != "" {
		d, err := time.Parse("2006-01-02", req.ActivityDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid activity_date"})
			return
		}
		in.ActivityDate = &d
	}

	act, err := h.svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": act.ID, "title": act.Title, "status": act.Status})
}

// List 发现页
func (h *ActivityHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.List(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Mine 我主办的活动
func (h *ActivityHandler) Mine(c *gin.Context) {
	uid := userIDFromCtx(c)
	list, err := h.svc.ListByHost(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Joined 我作为成员在籍的活动
func (h *ActivityHandler) Joined(c *gin.Context) {
	uid := userIDFromCtx(c)
	list, err := h.svc.ListJoined(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Complete 主办方结束活动
func (h *ActivityHandler) Complete(c *gin.Context) {
	uid := userIDFromCtx(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Complete(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Detail 活动详情+成员投影，进入详情页即重新推导
func (h *ActivityHandler) Detail(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	act, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	proj, err := h.membership.Project(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	// 详情页以投影值为准，冗余计数仅供列表页
	act.MemberCount = proj.Count
	act.SpotsLeft = proj.SpotsLeft

	c.JSON(http.StatusOK, gin.H{"activity": act, "members": proj.Members, "spots_left": proj.SpotsLeft})
}

// MagicFill 自然语言填表
func (h *ActivityHandler) MagicFill(c *gin.Context) {
	var req MagicFillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	out, err := h.svc.MagicFill(c.Request.Context(), req.Input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Search 语义搜索，候选集取当前的发现页全量
func (h *ActivityHandler) Search(c *gin.Context) {
	var req SearchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	list, err := h.svc.List(c.Request.Context(), 1, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	candidates := make([]pkg.SearchActivity, 0, len(list))
	for _, a := range list {
		candidates = append(candidates, pkg.SearchActivity{
			ID:    strconv.FormatUint(a.ID, 10),
			Title: a.Title,
			Desc:  a.Description,
		})
	}

	out, err := h.svc.Search(c.Request.Context(), req.Query, candidates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
