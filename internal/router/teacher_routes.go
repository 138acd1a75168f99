package router

import (
	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/middleware"
	"github.com/novaschool/parent-portal/internal/model"
)

// registerTeacher wires the staff dashboard and the template CRUD.
// Template writes are gated on the teacher or admin role; single
// template reads only need a session, because default templates are
// readable by every signed-in user and the handler enforces ownership
// for the rest.
func registerTeacher(e *echo.Echo, d Deps) {
	staff := e.Group("/v1/teacher",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))

	staff.GET("/profile", d.Teachers.Profile)
	staff.GET("/classes", d.Teachers.Classes)
	staff.GET("/class-students", d.Teachers.ClassStudents)
	staff.GET("/students/:id/progress", d.Teachers.StudentProgress)
	staff.GET("/students/:id/attendance", d.Teachers.StudentAttendance)
	staff.GET("/messages", d.Teachers.MessagesList)
	staff.POST("/messages/:id/read", d.Teachers.MarkMessageRead)
	staff.POST("/messages/bulk", d.Teachers.SendBulk)

	tpl := e.Group("/v1/templates",
		middleware.JWTAuth(d.JWTSecret),
		middleware.RequireRole(model.RoleTeacher, model.RoleAdmin))

	tpl.GET("", d.Templates.Mine)
	tpl.POST("", d.Templates.Create)
	tpl.PATCH("/:id", d.Templates.Update)
	tpl.DELETE("/:id", d.Templates.Delete)

	// Single-template reads take any session: defaults are readable by
	// everyone, and the handler itself enforces ownership for the rest.
	e.GET("/v1/templates/:id", d.Templates.GetByID, middleware.JWTAuth(d.JWTSecret))
}
