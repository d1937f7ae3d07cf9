package router

import (
	"time"

	"github.com/kawojue/phrednetwork/config"
	"github.com/kawojue/phrednetwork/internal/cache"
	"github.com/kawojue/phrednetwork/internal/domain"
	"github.com/kawojue/phrednetwork/internal/handler"
	"github.com/kawojue/phrednetwork/internal/middleware"
	"github.com/kawojue/phrednetwork/internal/repository"
	"github.com/kawojue/phrednetwork/internal/service"
	"github.com/kawojue/phrednetwork/internal/ws"
	"github.com/kawojue/phrednetwork/pkg/cloudinary"
	"github.com/kawojue/phrednetwork/pkg/paystack"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, queue *asynq.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Skip gin.Logger() to reduce log noise; use gin.Default() if you need request logging

	// Repositories
	userRepo := repository.NewUserRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	boostRepo := repository.NewBoostingRepository(db)
	advertRepo := repository.NewAdvertRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	forumRepo := repository.NewForumRepository(db)
	jobRepo := repository.NewJobRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	forumHub := ws.NewForumHub()
	payments := paystack.NewClient(cfg.Paystack.SecretKey)

	// Services
	notifier := service.NewNotifier(notificationRepo, userRepo, queue)
	ledgerSvc := service.NewLedgerService(walletRepo, userRepo, payments, notifier)
	authSvc := service.NewAuthService(userRepo, walletRepo, notifier, &cfg.JWT)
	boostSvc := service.NewBoostService(boostRepo, articleRepo, ledgerSvc)
	membershipSvc := service.NewMembershipService(userRepo, ledgerSvc, notifier)
	articleSvc := service.NewArticleService(articleRepo, notifier)
	gate := service.NewAccessGate(cache.NewInMemoryTTL(24 * time.Hour))
	matcher := service.NewAdvertMatcher(advertRepo)
	composer := service.NewFeedComposer(articleRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userRepo, articleRepo, cloud, payments, notifier)
	articleHandler := handler.NewArticleHandler(articleRepo, commentRepo, userRepo, articleSvc, gate, matcher, boostSvc, cloud, notifier)
	commentHandler := handler.NewCommentHandler(commentRepo, articleRepo, userRepo, notifier)
	feedHandler := handler.NewFeedHandler(composer)
	walletHandler := handler.NewWalletHandler(walletRepo, ledgerSvc, boostSvc, membershipSvc)
	webhookHandler := handler.NewWebhookHandler(ledgerSvc, &cfg.Paystack)
	advertHandler := handler.NewAdvertHandler(advertRepo, ledgerSvc, cloud)
	forumHandler := handler.NewForumHandler(forumRepo, cloud, notifier)
	jobHandler := handler.NewJobHandler(jobRepo)
	searchHandler := handler.NewSearchHandler(userRepo, articleRepo, forumRepo, jobRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	adminHandler := handler.NewAdminHandler(userRepo, articleRepo, advertRepo, walletRepo, boostRepo, ledgerSvc, notifier)

	authMw := middleware.AuthRequired(&cfg.JWT)
	optionalMw := middleware.OptionalAuth(&cfg.JWT)
	rateMw := middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second))

	api := r.Group("/api/v1")
	api.Use(rateMw)
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/verify-email", authHandler.VerifyEmail)
			authGroup.POST("/resend-verification", authHandler.ResendVerification)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}

		// Public reads carry optional auth so quotas and personalization apply.
		public := api.Group("")
		public.Use(optionalMw)
		{
			public.GET("/newsfeed", feedHandler.Newsfeed)
			public.GET("/discover", feedHandler.Discover)
			public.GET("/search", searchHandler.Global)
			public.GET("/articles/search", articleHandler.Search)
			public.GET("/articles/categories", articleHandler.Categories)
			public.GET("/articles/category/:category", articleHandler.ByCategory)
			public.GET("/articles/:id", articleHandler.Get)
			public.GET("/articles/:id/comments", commentHandler.List)
			public.GET("/users/search", userHandler.Search)
			public.GET("/users/:username", userHandler.Profile)
			public.GET("/forums", forumHandler.List)
			public.GET("/forums/:id", forumHandler.Get)
			public.GET("/jobs", jobHandler.List)
			public.GET("/jobs/:id", jobHandler.Get)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", userHandler.Me)
			me.PATCH("/profile", userHandler.UpdateProfile)
			me.POST("/avatar", userHandler.UploadAvatar)
			me.POST("/license", userHandler.SubmitLicense)
			me.DELETE("/account", userHandler.DeleteAccount)
			me.GET("/articles", articleHandler.Mine)
			me.GET("/adverts", advertHandler.Mine)
			me.GET("/forums", forumHandler.Mine)
			me.GET("/jobs", jobHandler.Mine)
			me.GET("/bookmarks", commentHandler.Bookmarks)
			me.GET("/notifications", notificationHandler.List)
			me.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			me.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
			me.DELETE("/notifications/:id", notificationHandler.Delete)
			me.GET("/wallet", walletHandler.Get)
			me.GET("/wallet/history", walletHandler.History)
			me.POST("/wallet/fund", walletHandler.Fund)
			me.POST("/wallet/withdraw", walletHandler.Withdraw)
			me.GET("/wallet/withdraw/quote", walletHandler.FeeQuote)
			me.POST("/wallet/account", userHandler.LinkAccount)
		}

		api.GET("/banks", authMw, userHandler.Banks)
		api.POST("/follow/:id", authMw, userHandler.Follow)
		api.DELETE("/follow/:id", authMw, userHandler.Unfollow)
		api.GET("/users/:username/followers", userHandler.Followers)
		api.GET("/users/:username/following", userHandler.Following)

		api.POST("/articles", authMw, articleHandler.Create)
		api.PATCH("/articles/:id", authMw, articleHandler.Update)
		api.DELETE("/articles/:id", authMw, articleHandler.Delete)
		api.POST("/boost", authMw, walletHandler.Boost)
		api.GET("/boost/quote", authMw, walletHandler.BoostQuote)
		api.POST("/articles/:id/comments", authMw, commentHandler.Create)
		api.DELETE("/comments/:commentId", authMw, commentHandler.Delete)
		api.POST("/comments/:commentId/replies", authMw, commentHandler.Reply)
		api.DELETE("/replies/:replyId", authMw, commentHandler.DeleteReply)
		api.POST("/articles/:id/like", authMw, commentHandler.LikeArticle)
		api.POST("/comments/:commentId/like", authMw, commentHandler.LikeComment)
		api.POST("/articles/:id/bookmark", authMw, commentHandler.Bookmark)
		api.DELETE("/articles/:id/bookmark", authMw, commentHandler.Unbookmark)

		api.POST("/membership", authMw, walletHandler.Membership)
		api.GET("/membership/tiers", walletHandler.MembershipTiers)

		api.POST("/adverts", authMw, advertHandler.Create)
		api.DELETE("/adverts/:id", authMw, advertHandler.Delete)

		forums := api.Group("/forums")
		forums.Use(authMw)
		{
			forums.POST("", forumHandler.Create)
			forums.POST("/:id/join", forumHandler.RequestJoin)
			forums.GET("/:id/requests", forumHandler.JoinRequests)
			forums.POST("/:id/requests/:userId/approve", forumHandler.ApproveJoin)
			forums.POST("/:id/requests/:userId/reject", forumHandler.RejectJoin)
			forums.POST("/:id/leave", forumHandler.Leave)
			forums.DELETE("/:id", forumHandler.Delete)
			forums.GET("/:id/messages", forumHandler.Messages)
			forums.GET("/:id/participants", forumHandler.Participants)
		}

		api.POST("/jobs", authMw, jobHandler.Create)
		api.PATCH("/jobs/:id", authMw, jobHandler.Update)
		api.DELETE("/jobs/:id", authMw, jobHandler.Delete)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireModerator())
		{
			admin.GET("/articles/pending", adminHandler.PendingArticles)
			admin.POST("/articles/:id/approve", adminHandler.ApproveArticle)
			admin.POST("/articles/:id/reject", adminHandler.RejectArticle)
			admin.GET("/adverts/pending", adminHandler.PendingAdverts)
			admin.POST("/adverts/:id/approve", adminHandler.ApproveAdvert)
			admin.POST("/adverts/:id/reject", adminHandler.RejectAdvert)
			admin.GET("/withdrawals/pending", adminHandler.PendingWithdrawals)
			admin.POST("/withdrawals/:userId/approve", adminHandler.ApproveWithdrawal)
			admin.GET("/licenses/pending", adminHandler.PendingLicenses)
			admin.POST("/licenses/:userId/review", adminHandler.ReviewLicense)
			admin.GET("/users", adminHandler.Users)
			admin.POST("/users/:userId/suspend", adminHandler.SuspendUser)
			admin.POST("/users/:userId/reactivate", adminHandler.ReactivateUser)
			admin.GET("/analytics", adminHandler.Analytics)
			admin.POST("/categories", adminHandler.CreateCategory)
			admin.DELETE("/categories/:id", adminHandler.DeleteCategory)
		}

		auditors := api.Group("/admin/auditors")
		auditors.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			auditors.GET("", adminHandler.Auditors)
			auditors.POST("", adminHandler.InviteAuditor)
			auditors.DELETE("/:userId", adminHandler.RemoveAuditor)
		}

		api.POST("/wallet/paystack/transfer-webhook", webhookHandler.HandleTransfer)
	}

	r.GET("/ws/forum", handler.UpgradeForumWS(&cfg.JWT, forumHub, forumRepo))

	return r
}
