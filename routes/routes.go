package routes

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/appdotbuilder/sekolah-absenku/attendance"
	"github.com/appdotbuilder/sekolah-absenku/config"
	"github.com/appdotbuilder/sekolah-absenku/handlers"
	"github.com/appdotbuilder/sekolah-absenku/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, db *gorm.DB, cfg *config.Config, loc *time.Location) {
	engine := attendance.NewEngine(db, loc)

	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(db, cfg.JWTSecret)
	usr := handlers.NewUserHandler(db)
	cls := handlers.NewClassHandler(db)
	std := handlers.NewStudentHandler(db)
	tch := handlers.NewTeacherHandler(db)
	tc := handlers.NewTeacherClassHandler(db)
	att := handlers.NewAttendanceHandler(db, engine)
	dash := handlers.NewDashboardHandler(db, engine)

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/auth/login", auth.Login)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Session (any authenticated role) =====
	session := e.Group("/auth", authMW)
	session.GET("/me", auth.Me)
	session.PUT("/password", auth.ChangePassword)

	// ===== Admin =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))

	admin.GET("/users", usr.List)
	admin.GET("/users/:id", usr.Get)
	admin.POST("/users", usr.Create)
	admin.PUT("/users/:id", usr.Update)
	admin.DELETE("/users/:id", usr.Delete)

	admin.GET("/classes", cls.List)
	admin.GET("/classes/:id", cls.Get)
	admin.POST("/classes", cls.Create)
	admin.PUT("/classes/:id", cls.Update)
	admin.DELETE("/classes/:id", cls.Delete)

	admin.GET("/students", std.List)
	admin.GET("/students/:id", std.Get)
	admin.POST("/students", std.Create)
	admin.PUT("/students/:id", std.Update)
	admin.DELETE("/students/:id", std.Delete)

	admin.GET("/teachers", tch.List)
	admin.GET("/teachers/:id", tch.Get)
	admin.POST("/teachers", tch.Create)
	admin.PUT("/teachers/:id", tch.Update)
	admin.DELETE("/teachers/:id", tch.Delete)

	admin.POST("/teacher-classes", tc.Assign)
	admin.DELETE("/teachers/:id/classes/:classId", tc.Remove)

	// ===== Teacher (teachers and admins) =====
	teacher := e.Group("/teacher", authMW, middlewares.RequireRole("teacher", "admin"))

	teacher.GET("/dashboard", dash.Stats)
	teacher.GET("/classes/:id/students", cls.Students)
	teacher.GET("/teachers/:id/classes", tc.Classes)

	teacher.POST("/attendance", att.Create)
	teacher.POST("/attendance/bulk", att.Bulk)
	teacher.PUT("/attendance/:id", att.Update)
	teacher.GET("/attendance/report", att.Report)
	teacher.GET("/attendance/class/:classId", att.ClassOnDate)
	teacher.GET("/attendance/statistics", att.Statistics)
	teacher.GET("/attendance/students/:id/history", att.StudentHistory)

	// ===== Student self-service =====
	student := e.Group("/student", authMW, middlewares.RequireRole("student"))
	student.POST("/attendance/check", att.Check)
	student.GET("/attendance/today", att.Today)
	student.GET("/attendance/history", att.History)
}
