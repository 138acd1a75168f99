package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/policy"
)

// ProgressHandler serves progress record reads and creation.
type ProgressHandler struct {
	Students StudentStore
	Progress ProgressStore
	Users    UserStore
}

func NewProgressHandler(s StudentStore, p ProgressStore, u UserStore) *ProgressHandler {
	return &ProgressHandler{Students: s, Progress: p, Users: u}
}

type createProgressReq struct {
	StudentID uint64  `json:"student_id" validate:"required"`
	Category  string  `json:"category" validate:"required,oneof=english_listening english_speaking english_reading english_writing science_critical_thinking science_prediction science_data_collection presentation_skills overall_assessment"`
	Score     *int    `json:"score" validate:"omitempty,min=0,max=100"`
	Notes     *string `json:"notes"`
}

// ListForStudent returns a student's progress records to the owning
// parent (or an admin), newest first.
func (h *ProgressHandler) ListForStudent(c echo.Context) error {
	s, ok, err := loadOwnedStudent(c, h.Students)
	if !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Progress.ListByStudent(ctx, s.ID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// Create appends a progress record. The recording teacher's display
// name is stamped onto the row so parents see who graded it even if
// the account is later renamed.
func (h *ProgressHandler) Create(c echo.Context) error {
	if !policy.Allow(callerRole(c), policy.Staff, nil) {
		return unauthorized(c)
	}
	var req createProgressReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Students.GetByID(ctx, req.StudentID); err != nil {
		return repoError(c, err)
	}

	teacherName := "Unknown"
	if u, err := h.Users.GetByID(ctx, callerID(c)); err == nil {
		teacherName = u.DisplayName()
	}

	p := model.ProgressRecord{
		StudentID:   req.StudentID,
		RecordDate:  time.Now().UTC(),
		Category:    req.Category,
		Score:       req.Score,
		Notes:       req.Notes,
		TeacherName: &teacherName,
	}
	if err := h.Progress.Create(ctx, &p); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}
