package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/user/cinelog/internal/handler"
	"github.com/user/cinelog/internal/middleware"
)

// 认证接口的突发上限
const authBurst = 10

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler, policy *middleware.Policy) {
	auth := middleware.RequireAuth(h.Config.JWTSecret)
	can := policy.RequireCapability

	// 健康检查与运维
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", gin.WrapH(httpSwagger.WrapHandler))

	api := r.Group("/api")

	// ==================== 认证 ====================
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(h.Config.RateLimitRPS, authBurst))
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.GET("/me", auth, h.Me)
	}

	// ==================== 电影（公开读取）====================
	movies := api.Group("/movies")
	{
		movies.GET("", h.ListMovies)
		movies.GET("/search", h.SearchMovies)
		movies.GET("/top-rated", h.TopRatedMovies)
		movies.GET("/trending", h.TrendingMovies)
		movies.GET("/genres", h.Genres)
		movies.GET("/person/:id", h.GetPerson)
		movies.GET("/admin/insights", auth, can(middleware.ObjInsights, middleware.ActRead), h.Insights)
		movies.GET("/:id", h.GetMovie)
		movies.GET("/:id/reviews", h.MovieReviews)
	}

	// ==================== 电影与人物管理（管理员）====================
	crud := api.Group("/moviesCRUD")
	crud.Use(auth)
	{
		movieWrite := can(middleware.ObjMovie, middleware.ActWrite)
		crud.POST("/movie", movieWrite, h.CreateMovie)
		crud.PUT("/movie/:id", movieWrite, h.UpdateMovie)
		crud.DELETE("/movie/:id", movieWrite, h.DeleteMovie)

		personWrite := can(middleware.ObjPerson, middleware.ActWrite)
		crud.POST("/person", personWrite, h.CreatePerson)
		crud.PUT("/person/:id", personWrite, h.UpdatePerson)
		crud.DELETE("/person/:id", personWrite, h.DeletePerson)
	}

	// ==================== 影评 ====================
	reviews := api.Group("/reviews")
	reviews.Use(auth)
	{
		reviews.GET("/me", h.MyReviews)
		reviews.POST("", can(middleware.ObjReview, middleware.ActWrite), h.CreateReview)
		reviews.PUT("/:id", can(middleware.ObjReview, middleware.ActWrite), h.UpdateReview)
		reviews.DELETE("/:id", can(middleware.ObjReview, middleware.ActWrite), h.DeleteReview)
	}

	// ==================== 愿望单 ====================
	wishlist := api.Group("/wishlist")
	wishlist.Use(auth, can(middleware.ObjWishlist, middleware.ActWrite))
	{
		wishlist.GET("", h.Wishlist)
		wishlist.POST("/:movieId", h.AddToWishlist)
		wishlist.DELETE("/:movieId", h.RemoveFromWishlist)
	}

	// ==================== 片单 ====================
	lists := api.Group("/customlist")
	lists.Use(auth)
	{
		listWrite := can(middleware.ObjCustomList, middleware.ActWrite)
		lists.GET("", h.MyCustomLists)
		lists.GET("/:id", h.GetCustomList)
		lists.POST("", listWrite, h.CreateCustomList)
		lists.PUT("/:id", listWrite, h.UpdateCustomList)
		lists.DELETE("/:id", listWrite, h.DeleteCustomList)
		lists.POST("/:id/add-movie", listWrite, h.AddMovieToList)
		lists.POST("/:id/remove-movie", listWrite, h.RemoveMovieFromList)
	}

	// ==================== 个人资料 ====================
	profile := api.Group("/profile")
	profile.Use(auth)
	{
		profileWrite := can(middleware.ObjProfile, middleware.ActWrite)
		profile.GET("", h.GetProfile)
		profile.PUT("", profileWrite, h.UpdateProfile)
		profile.PUT("/password", profileWrite, h.ChangePassword)
		profile.GET("/:id", h.PublicProfile)
	}

	// ==================== 通知 ====================
	notifications := api.Group("/notifications")
	notifications.Use(auth)
	{
		notifications.GET("/preferences", h.GetPreferences)
		notifications.PUT("/preferences", can(middleware.ObjProfile, middleware.ActWrite), h.UpdatePreferences)
		notifications.POST("/send", can(middleware.ObjNotification, middleware.ActTrigger), h.SendNotifications)
	}

	// ==================== 新闻 ====================
	news := api.Group("/news")
	{
		newsWrite := can(middleware.ObjNews, middleware.ActWrite)
		news.GET("", h.ListNews)
		news.GET("/:id", h.GetNews)
		news.POST("", auth, newsWrite, h.CreateNews)
		news.PUT("/:id", auth, newsWrite, h.UpdateNews)
		news.DELETE("/:id", auth, newsWrite, h.DeleteNews)
	}

	// ==================== 讨论 ====================
	discussion := api.Group("/discussion")
	{
		discussionWrite := can(middleware.ObjDiscussion, middleware.ActWrite)
		discussion.GET("", h.ListDiscussions)
		discussion.GET("/:id", h.GetDiscussion)
		discussion.POST("", auth, discussionWrite, h.CreateDiscussion)
		discussion.PUT("/:id", auth, discussionWrite, h.UpdateDiscussion)
		discussion.DELETE("/:id", auth, discussionWrite, h.DeleteDiscussion)
		discussion.POST("/:id/comments", auth, discussionWrite, h.AddComment)
		discussion.DELETE("/:id/comments/:commentId", auth, discussionWrite, h.DeleteComment)
	}

	// ==================== 推荐 ====================
	recs := api.Group("/recommendations")
	{
		recs.GET("/similar/:movieId", h.SimilarMovies)
		recs.GET("/personalized", auth, h.PersonalizedMovies)
		recs.GET("/trending", h.TrendingMovies)
		recs.GET("/top-rated", h.TopRatedMovies)
	}
}
