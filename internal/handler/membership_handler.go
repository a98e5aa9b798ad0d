package handler

import (
	"net/http"
	"strconv"

	"Hingaa_Server/internal/service"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	svc *service.MembershipService
}

func NewMembershipHandler(svc *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

// Members 在籍成员投影
func (h *MembershipHandler) Members(c *gin.Context) {
	activityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	proj, err := h.svc.Project(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": proj.Members, "count": proj.Count, "spots_left": proj.SpotsLeft})
}

// Count 列表页轮询用的人数快路径，走缓存
func (h *MembershipHandler) Count(c *gin.Context) {
	activityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	cnt, err := h.svc.ActiveCount(c.Request.Context(), activityID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": cnt})
}

// Remove 主办方移除成员
func (h *MembershipHandler) Remove(c *gin.Context) {
	uid := userIDFromCtx(c)
	activityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	memberID, _ := strconv.ParseUint(c.Param("memberId"), 10, 64)

	if err := h.svc.RemoveMember(c.Request.Context(), activityID, memberID, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
