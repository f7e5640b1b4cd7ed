// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"TalentBridge-backend/internal/auth"
	"TalentBridge-backend/internal/controller/admin"
	"TalentBridge-backend/internal/controller/application"
	"TalentBridge-backend/internal/controller/file"
	"TalentBridge-backend/internal/controller/jobpost"
	"TalentBridge-backend/internal/controller/profile"
	"TalentBridge-backend/internal/controller/subscription"
	"TalentBridge-backend/internal/middleware"
	"TalentBridge-backend/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	authHandler := auth.NewHandler(s.DB)
	jobController := jobpost.NewJobController(s.DB, s.Storage)
	applicationController := application.NewApplicationController(s.DB, s.Storage)
	profileController := profile.NewProfileController(s.DB)
	adminController := admin.NewAdminController(s.DB, s.Storage)
	fileController := file.NewFileController(s.DB, s.Storage)
	subscriptionController := subscription.NewSubscriptionController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))

	r.Use(middleware.SafeHeader())
	r.Use(middleware.Authenticate(s.DB))
	// Authenticate must run first so the limiter can key by user id.
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)

	authRoute := r.Group("/auth")
	{
		authRoute.POST("login", authHandler.LoginHandler)
		authRoute.POST("register/applicant", authHandler.RegisterApplicantHandler)
		authRoute.POST("register/hr", authHandler.RegisterHRHandler)
		authRoute.POST("forgot-password", authHandler.ForgotPasswordHandler)
		authRoute.POST("reset-password", authHandler.ResetPasswordHandler)
		authRoute.GET("me", middleware.RequireAuth(), authHandler.MeHandler)
	}

	api := r.Group("/api")
	{
		api.POST("/subscribe", subscriptionController.Subscribe)

		jobRoute := api.Group("/jobs")
		{
			jobRoute.GET("", jobController.GetJobs)
			jobRoute.GET("/active", jobController.GetActiveJobs)
			jobRoute.GET("/my", middleware.RequireAuth(), jobController.GetMyJobs)
			jobRoute.GET("/:id", middleware.RequireAuth(), jobController.GetJobByID)

			needHR := jobRoute.Group("")
			{
				needHR.Use(middleware.RequireAuth(), middleware.CheckRole(model.RoleHR, model.RoleSuperAdmin))
				needHR.POST("", jobController.CreateJobHandler)
				needHR.PUT("/:id", jobController.EditJob)
				needHR.POST("/:id/image", middleware.SizeLimit(10<<20), jobController.UploadJobImage)
				needHR.DELETE("/:id", jobController.DeleteJob)
				needHR.PATCH("/:id/toggle", jobController.ToggleJobStatus)
				needHR.PATCH("/:id/close", jobController.CloseJob)
				needHR.PATCH("/:id/reopen", jobController.ReopenJob)
			}
		}

		applicationRoute := api.Group("/applications")
		{
			applicationRoute.Use(middleware.RequireAuth())
			applicationRoute.POST("/apply/:jobId", middleware.SizeLimit(application.MaxResumeBytes), applicationController.Apply)
			applicationRoute.POST("/apply-document/:jobId", middleware.SizeLimit(application.MaxResumeBytes), applicationController.ApplyWithDocument)
			applicationRoute.GET("/my", applicationController.MyApplications)

			needHR := applicationRoute.Group("")
			{
				needHR.Use(middleware.CheckRole(model.RoleHR, model.RoleSuperAdmin))
				needHR.PUT("/:id/status", applicationController.UpdateStatus)
				needHR.GET("/job/:jobId", applicationController.FilterByJob)
				needHR.GET("/report/:jobId", applicationController.Report)
				needHR.GET("/shortlisted/count", applicationController.ShortlistedCount)
			}
		}

		profileRoute := api.Group("/profile")
		{
			profileRoute.Use(middleware.RequireAuth())
			profileRoute.GET("/applicant", profileController.GetApplicantProfile)
			profileRoute.POST("/applicant", profileController.UpdateApplicantProfile)
			profileRoute.GET("/applicant/skills", profileController.ListSkills)
			profileRoute.POST("/applicant/skills", profileController.AddSkill)
			profileRoute.DELETE("/applicant/skills/:skill", profileController.RemoveSkill)
			profileRoute.PUT("/applicant/primary-skill", profileController.SetPrimarySkill)
			profileRoute.GET("/hr", profileController.GetHrProfile)
			profileRoute.POST("/hr", profileController.UpdateHrProfile)
		}

		adminRoute := api.Group("/admin")
		{
			adminRoute.Use(middleware.RequireAuth(), middleware.CheckRole(model.RoleSuperAdmin))
			adminRoute.GET("/users", adminController.ListUsers)
			adminRoute.DELETE("/users/:id", adminController.DeleteUser)
			adminRoute.GET("/hr/pending", adminController.ListPendingHR)
			adminRoute.PUT("/approve-hr/:id", adminController.ApproveHR)
			adminRoute.PUT("/disable-hr/:id", adminController.DisableHR)
			adminRoute.GET("/jobs", adminController.ListJobs)
			adminRoute.GET("/applications", adminController.ListApplications)
			adminRoute.DELETE("/applications/:id", adminController.DeleteApplication)
		}
	}

	r.GET("/resumes/:filename", middleware.RequireAuth(), fileController.GetResume)

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
