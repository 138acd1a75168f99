package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/policy"
)

// MilestoneHandler serves milestone reads and creation.
type MilestoneHandler struct {
	Students   StudentStore
	Milestones MilestoneStore
}

func NewMilestoneHandler(s StudentStore, m MilestoneStore) *MilestoneHandler {
	return &MilestoneHandler{Students: s, Milestones: m}
}

type createMilestoneReq struct {
	StudentID     uint64  `json:"student_id" validate:"required"`
	Title         string  `json:"title" validate:"required,min=1"`
	Description   string  `json:"description" validate:"required,min=1"`
	Category      string  `json:"category" validate:"required,oneof=english science presentation social other"`
	MilestoneDate *string `json:"milestone_date"`
}

// ListForStudent returns a student's milestones to the owning parent
// (or an admin), newest first.
func (h *MilestoneHandler) ListForStudent(c echo.Context) error {
	s, ok, err := loadOwnedStudent(c, h.Students)
	if !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Milestones.ListByStudent(ctx, s.ID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// Create records a milestone. The milestone date defaults to now when
// not supplied.
func (h *MilestoneHandler) Create(c echo.Context) error {
	if !policy.Allow(callerRole(c), policy.AdminOnly, nil) {
		return unauthorized(c)
	}
	var req createMilestoneReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	date := time.Now().UTC()
	if req.MilestoneDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.MilestoneDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "milestone_date must be YYYY-MM-DD"})
		}
		date = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Students.GetByID(ctx, req.StudentID); err != nil {
		return repoError(c, err)
	}

	m := model.Milestone{
		StudentID:     req.StudentID,
		MilestoneDate: date,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
	}
	if err := h.Milestones.Create(ctx, &m); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}
