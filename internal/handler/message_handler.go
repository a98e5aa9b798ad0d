package handler

import (
	"net/http"
	"strconv"

	"Hingaa_Server/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc *service.MessageService
}

type postMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// List 群聊时间线
func (h *MessageHandler) List(c *gin.Context) {
	uid := userIDFromCtx(c)
	activityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := h.svc.List(c.Request.Context(), activityID, uid, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// Post 发消息
func (h *MessageHandler) Post(c *gin.Context) {
	uid := userIDFromCtx(c)
	activityID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	msg, err := h.svc.Post(c.Request.Context(), activityID, uid, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": msg.ID})
}
