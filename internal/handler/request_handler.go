package handler

import (
	"net/http"
	"strconv"

	"Hingaa_Server/internal/service"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// Join 提交加入请求
func (h *RequestHandler) Join(c *gin.Context) {
	uid := userIDFromCtx(c)
	activityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	req, err := h.svc.SubmitJoin(c.Request.Context(), activityID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "status": req.Status})
}

// Withdraw 撤回自己的请求。非 pending/非本人静默成功。
func (h *RequestHandler) Withdraw(c *gin.Context) {
	uid := userIDFromCtx(c)
	requestID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.Withdraw(c.Request.Context(), requestID, uid); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Approve 主办方同意
func (h *RequestHandler) Approve(c *gin.Context) {
	uid := userIDFromCtx(c)
	requestID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	req, err := h.svc.Approve(c.Request.Context(), requestID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "status": req.Status})
}

// Decline 主办方拒绝。到达阈值的那次返回 propose_block=true，
// 由前端弹确认框，是否真的拉黑仍由主办方决定。
func (h *RequestHandler) Decline(c *gin.Context) {
	uid := userIDFromCtx(c)
	requestID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	res, err := h.svc.Decline(c.Request.Context(), requestID, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            res.Request.ID,
		"status":        res.Request.Status,
		"decline_count": res.DeclineCount,
		"propose_block": res.ProposeBlock,
		"user_id":       res.Request.UserID,
	})
}

// Outgoing 我发出的待审请求
func (h *RequestHandler) Outgoing(c *gin.Context) {
	uid := userIDFromCtx(c)
	list, err := h.svc.ListOutgoing(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Incoming 我主办活动收到的待审请求
func (h *RequestHandler) Incoming(c *gin.Context) {
	uid := userIDFromCtx(c)
	list, err := h.svc.ListIncoming(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
