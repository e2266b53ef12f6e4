package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"klinika/config"
	"klinika/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		doctors := api.Group("/doctors")
		{
			doctors.GET("/", h.getDoctors)
			doctors.GET("/me", h.authMiddleware(), h.getMyDoctorProfile)
			doctors.GET("/:id", h.getDoctorByID)
			doctors.GET("/:id/availability", h.getDoctorAvailability)

			auth := doctors.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.createDoctor)
				auth.PUT("/:id", h.updateDoctor)
				auth.POST("/:id/photo", h.uploadDoctorPhoto)

				admin := auth.Group("/", h.adminMiddleware())
				{
					admin.POST("/:id/approve", h.approveDoctor)
				}
			}
		}

		h.initScheduleRoutes(api)

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.POST("/", h.createAppointment)
			appointments.GET("/", h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.POST("/:id/reschedule", h.rescheduleAppointment)
			appointments.DELETE("/:id", h.cancelAppointment)

			doctor := appointments.Group("/", h.doctorMiddleware())
			{
				doctor.POST("/:id/confirm", h.confirmAppointment)
				doctor.POST("/:id/complete", h.completeAppointment)
				doctor.POST("/:id/reject", h.rejectAppointment)
			}
		}

		notifications := api.Group("/notifications")
		notifications.Use(h.authMiddleware())
		{
			notifications.GET("/", h.getNotifications)
			notifications.GET("/unread-count", h.getUnreadNotificationCount)
			notifications.POST("/:id/read", h.markNotificationRead)
		}
	}
}

func (h *Handler) initScheduleRoutes(api *gin.RouterGroup) {
	schedules := api.Group("/schedules")
	{
		schedules.GET("/", h.getSchedules)
		schedules.GET("/:id", h.getScheduleByID)

		auth := schedules.Group("/", h.authMiddleware())
		{
			doctor := auth.Group("/", h.doctorMiddleware())
			{
				doctor.POST("/", h.createSchedule)
				doctor.PUT("/:id", h.updateSchedule)
				doctor.DELETE("/:id", h.deleteSchedule)
			}
		}
	}

	holidays := api.Group("/holidays")
	{
		holidays.GET("/", h.getHolidays)

		auth := holidays.Group("/", h.authMiddleware(), h.doctorMiddleware())
		{
			auth.POST("/", h.createHoliday)
			auth.DELETE("/:id", h.deleteHoliday)
		}
	}
}
