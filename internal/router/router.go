// Package router wires handlers to routes and applies the middleware
// chain for each group.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/handler"
	"github.com/novaschool/parent-portal/internal/metrics"
	"github.com/novaschool/parent-portal/internal/middleware"
	"github.com/novaschool/parent-portal/internal/model"
)

// Deps collects everything route registration needs.
type Deps struct {
	JWTSecret string
	DB        *sql.DB

	Auth       *handler.AuthHandler
	Students   *handler.StudentHandler
	Progress   *handler.ProgressHandler
	Attendance *handler.AttendanceHandler
	Milestones *handler.MilestoneHandler
	Messages   *handler.MessageHandler
	Teachers   *handler.TeacherHandler
	Templates  *handler.TemplateHandler

	// Cache wraps public cacheable GETs; pass-through when disabled.
	Cache echo.MiddlewareFunc
}

// Register sets up the full route table.
func Register(e *echo.Echo, d Deps) {
	registerPublic(e, d)
	registerPortal(e, d)
	registerTeacher(e, d)
}

// registerPublic wires the endpoints that need no session: health,
// metrics, the identity-provider callback and the shared default
// templates.
func registerPublic(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.DB))
	e.GET("/metrics", metrics.Handler())

	g := e.Group("/v1/auth")
	g.POST("/callback", d.Auth.Callback)
	g.POST("/refresh", d.Auth.Refresh)

	e.GET("/v1/templates/defaults", d.Templates.Defaults, d.Cache)
}

// registerPortal wires the endpoints shared by every signed-in user:
// the parent dashboard reads, record creation for staff, and direct
// messaging.
func registerPortal(e *echo.Echo, d Deps) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(d.JWTSecret))

	auth.GET("/auth/me", d.Auth.Me)
	auth.POST("/auth/logout", d.Auth.Logout)

	auth.GET("/students", d.Students.List)
	auth.POST("/students", d.Students.Create)
	auth.GET("/students/:id", d.Students.GetByID)
	auth.GET("/students/:id/progress", d.Progress.ListForStudent)
	auth.GET("/students/:id/attendance", d.Attendance.ListForStudent)
	auth.GET("/students/:id/milestones", d.Milestones.ListForStudent)

	auth.POST("/progress", d.Progress.Create)
	auth.POST("/attendance", d.Attendance.Record)
	auth.POST("/milestones", d.Milestones.Create)

	auth.GET("/messages", d.Messages.List)
	auth.POST("/messages", d.Messages.Send)
	auth.POST("/messages/:id/read", d.Messages.MarkRead)
	auth.GET("/messages/unread-count", d.Messages.UnreadCount)
	auth.GET("/teachers", d.Messages.Teachers)

	// Admin provisioning of staff profiles and class rosters.
	admin := e.Group("/v1", middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/teachers", d.Teachers.CreateProfile)
	admin.POST("/class-assignments", d.Teachers.AssignStudent)
}
