package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/policy"
)

// AttendanceHandler serves attendance reads and recording.
type AttendanceHandler struct {
	Students   StudentStore
	Attendance AttendanceStore
}

func NewAttendanceHandler(s StudentStore, a AttendanceStore) *AttendanceHandler {
	return &AttendanceHandler{Students: s, Attendance: a}
}

type recordAttendanceReq struct {
	StudentID uint64  `json:"student_id" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=present absent late excused"`
	Notes     *string `json:"notes"`
}

// ListForStudent returns a student's attendance to the owning parent
// (or an admin), newest first.
func (h *AttendanceHandler) ListForStudent(c echo.Context) error {
	s, ok, err := loadOwnedStudent(c, h.Students)
	if !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Attendance.ListByStudent(ctx, s.ID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// Record marks attendance for today.
func (h *AttendanceHandler) Record(c echo.Context) error {
	if !policy.Allow(callerRole(c), policy.Staff, nil) {
		return unauthorized(c)
	}
	var req recordAttendanceReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Students.GetByID(ctx, req.StudentID); err != nil {
		return repoError(c, err)
	}

	a := model.AttendanceRecord{
		StudentID:      req.StudentID,
		AttendanceDate: time.Now().UTC(),
		Status:         req.Status,
		Notes:          req.Notes,
	}
	if err := h.Attendance.Create(ctx, &a); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}
