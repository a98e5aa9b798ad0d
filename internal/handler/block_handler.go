package handler

import (
	"net/http"

	"Hingaa_Server/internal/service"

	"github.com/gin-gonic/gin"
)

type BlockHandler struct {
	svc *service.BlockService
}

type blockReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

func NewBlockHandler(svc *service.BlockService) *BlockHandler {
	return &BlockHandler{svc: svc}
}

// Block 拉黑。拒绝计数到阈值后的确认框走的也是这个接口。
func (h *BlockHandler) Block(c *gin.Context) {
	var req blockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	if err := h.svc.Block(c.Request.Context(), uid, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// Unblock 解除拉黑
func (h *BlockHandler) Unblock(c *gin.Context) {
	var req blockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	uid := userIDFromCtx(c)
	if err := h.svc.Unblock(c.Request.Context(), uid, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

// List 我的黑名单
func (h *BlockHandler) List(c *gin.Context) {
	uid := userIDFromCtx(c)
	list, err := h.svc.List(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
