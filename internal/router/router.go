package router

import (
	"Hingaa_Server/internal/config"
	"Hingaa_Server/internal/handler"
	"Hingaa_Server/internal/middleware"
	"Hingaa_Server/internal/pkg"
	"Hingaa_Server/internal/repository/mysql"
	"Hingaa_Server/internal/repository/redis"
	"Hingaa_Server/internal/service"

	"github.com/gin-gonic/gin"
)

func InitRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 配置邮件环境
	emailCfg := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}

	feed := &redis.FeedRepository{}
	cache := redis.NewMemberCacheRepository()
	gemini := pkg.NewGeminiClient(cfg.GeminiAPIKey)

	emailSvc := service.NewEmailService(emailCfg)
	userSvc := service.NewUserService(mysql.DB, emailSvc)
	activitySvc := service.NewActivityService(mysql.DB, gemini)
	membershipSvc := service.NewMembershipService(mysql.DB, feed, cache)
	requestSvc := service.NewRequestService(mysql.DB, feed, cache)
	blockSvc := service.NewBlockService(mysql.DB)
	messageSvc := service.NewMessageService(mysql.DB, membershipSvc, feed)

	user := handler.NewUserHandler(userSvc)
	email := handler.NewEmailHandler(emailSvc)
	activity := handler.NewActivityHandler(activitySvc, membershipSvc)
	membership := handler.NewMembershipHandler(membershipSvc)
	request := handler.NewRequestHandler(requestSvc)
	block := handler.NewBlockHandler(blockSvc)
	message := handler.NewMessageHandler(messageSvc)
	stream := handler.NewStreamHandler(feed)

	// 邮件相关接口
	emailGroup := r.Group("/api/email")
	{
		emailGroup.POST("/:scope/code", email.SendCode)
	}

	// 用户相关接口
	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", user.Register)
		userGroup.POST("/login", user.Login)
		userGroup.POST("/logout", user.Logout)
		userGroup.POST("/reset", user.ResetPassword)
	}

	// token相关接口
	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", user.TokenRefresh)
	}

	// 登录态接口
	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/change-password", user.ChangePassword)
		authGroup.GET("/profile", user.Profile)
		authGroup.PUT("/profile", user.UpdateProfile)
	}

	// 活动相关接口
	activityGroup := r.Group("/api/activity")
	activityGroup.Use(middleware.AuthMiddleware())
	{
		activityGroup.POST("/create", activity.Create)
		activityGroup.GET("/list", activity.List)
		activityGroup.GET("/mine", activity.Mine)
		activityGroup.GET("/joined", activity.Joined)
		activityGroup.GET("/:id", activity.Detail)
		activityGroup.POST("/:id/complete", activity.Complete)
		activityGroup.POST("/magic-fill", activity.MagicFill)
		activityGroup.POST("/search", activity.Search)

		activityGroup.POST("/:id/join", request.Join)
		activityGroup.GET("/:id/members", membership.Members)
		activityGroup.GET("/:id/members/count", membership.Count)
		activityGroup.DELETE("/:id/members/:memberId", membership.Remove)
		activityGroup.GET("/:id/messages", message.List)
		activityGroup.POST("/:id/messages", message.Post)
	}

	// 加入请求相关接口
	requestGroup := r.Group("/api/request")
	requestGroup.Use(middleware.AuthMiddleware())
	{
		requestGroup.POST("/:id/approve", request.Approve)
		requestGroup.POST("/:id/decline", request.Decline)
		requestGroup.POST("/:id/withdraw", request.Withdraw)
		requestGroup.GET("/outgoing", request.Outgoing)
		requestGroup.GET("/incoming", request.Incoming)
	}

	// 黑名单相关接口
	blockGroup := r.Group("/api/block")
	blockGroup.Use(middleware.AuthMiddleware())
	{
		blockGroup.POST("/", block.Block)
		blockGroup.DELETE("/", block.Unblock)
		blockGroup.GET("/list", block.List)
	}

	// 变更推送
	streamGroup := r.Group("/api/stream")
	streamGroup.Use(middleware.AuthMiddleware())
	{
		streamGroup.GET("/requests", stream.Requests)
		streamGroup.GET("/activity/:id", stream.Activity)
	}

	return r
}
