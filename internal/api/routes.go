package api

import (
	"net/http"

	"gymdash/internal/domain"
	"gymdash/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	memberService service.MemberService,
	planService service.PlanService,
	paymentService service.PaymentService,
) {
	authHandler := NewAuthHandler(authService)
	memberHandler := NewMemberHandler(memberService)
	planHandler := NewPlanHandler(planService)
	paymentHandler := NewPaymentHandler(paymentService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Profile & Dashboard ---
		protected.GET("/profile", memberHandler.GetMyProfile)
		protected.PUT("/profile", memberHandler.UpdateMyProfile)
		protected.GET("/dashboard", memberHandler.GetDashboard)

		// --- Progress tracking ---
		progressGroup := protected.Group("/progress")
		{
			progressGroup.POST("", memberHandler.AddProgress)
			progressGroup.GET("", memberHandler.GetProgress)
			progressGroup.GET("/data", memberHandler.GetProgressSeries)
		}

		// --- Progress photos ---
		photoGroup := protected.Group("/photos")
		{
			photoGroup.POST("/upload-url", memberHandler.RequestPhotoUpload)
			photoGroup.POST("/confirm", memberHandler.ConfirmPhotoUpload)
			photoGroup.GET("", memberHandler.GetMyPhotos)
			photoGroup.DELETE("/:photoId", memberHandler.DeletePhoto)
		}

		// --- AI Plans ---
		planGroup := protected.Group("/plans")
		{
			// POST /api/v1/plans/generate - admins may add ?memberId= to
			// target another member's profile.
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("/workouts", planHandler.GetMyWorkouts)
			planGroup.GET("/diets", planHandler.GetMyDiets)
			planGroup.DELETE("/workouts/:planId", planHandler.DeleteWorkout)
		}

		// --- Coach Q&A ---
		protected.POST("/coach/ask", planHandler.AskCoach)

		// --- Payments ---
		paymentGroup := protected.Group("/payments")
		{
			paymentGroup.POST("", paymentHandler.SubmitPayment)
			paymentGroup.GET("", paymentHandler.GetMyPayments)
		}

		// --- Admin ---
		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/members", memberHandler.ListMembers)
			adminGroup.GET("/payments", paymentHandler.ListPayments)
			adminGroup.POST("/payments/:paymentId/decision", paymentHandler.DecidePayment)
		}
	}
}
