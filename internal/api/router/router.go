package router

import (
	"tunepost-go/internal/api/handler"

	"github.com/gin-gonic/gin"
)

// Handlers 业务路由依赖的全部 handler
type Handlers struct {
	Vote           *handler.VoteHandler
	Recommendation *handler.RecommendationHandler
	Search         *handler.SearchHandler
	Ranking        *handler.RankingHandler
	Notification   *handler.NotificationHandler
	Favorite       *handler.FavoriteHandler
	Follow         *handler.FollowHandler
	Comment        *handler.CommentHandler
}

// Setup 注册所有业务路由。authRequired 由调用方注入，测试中可替换
func Setup(r *gin.Engine, h *Handlers, authRequired gin.HandlerFunc) {
	v1 := r.Group("/v1")

	// --- 推荐 ---
	recs := v1.Group("/recommendations")
	{
		// 公开接口
		recs.GET("", h.Recommendation.List)
		recs.GET("/search", h.Search.Search)
		recs.GET("/:id", h.Recommendation.Get)

		recsAuth := recs.Group("", authRequired)
		{
			recsAuth.POST("", h.Recommendation.Create)
			recsAuth.POST("/:id/vote", h.Vote.Vote)
			recsAuth.POST("/:id/comments", h.Comment.Create)
		}
	}

	// --- 排行榜 ---
	v1.GET("/rankings", h.Ranking.List)

	// --- 通知 ---
	notifications := v1.Group("/notifications", authRequired)
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.PATCH("/mark-all-read", h.Notification.MarkAllRead)
		notifications.PATCH("/:id/read", h.Notification.MarkRead)
	}

	// --- 收藏 / 关注 / 评论 ---
	v1.POST("/favorites/:songId", authRequired, h.Favorite.Toggle)
	v1.POST("/users/:id/follow", authRequired, h.Follow.Toggle)
	v1.DELETE("/comments/:id", authRequired, h.Comment.Delete)
}
