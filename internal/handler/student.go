package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/policy"
)

// StudentHandler serves the parent-facing student endpoints.
type StudentHandler struct {
	Students StudentStore
}

func NewStudentHandler(s StudentStore) *StudentHandler {
	return &StudentHandler{Students: s}
}

type createStudentReq struct {
	FirstName      string  `json:"first_name" validate:"required,min=1"`
	LastName       string  `json:"last_name" validate:"required,min=1"`
	DateOfBirth    string  `json:"date_of_birth" validate:"required"`
	CurrentProgram string  `json:"current_program" validate:"required,oneof=kindergarten starters movers flyers ielts"`
	PhotoURL       *string `json:"photo_url"`
}

// List returns the caller's own students; admins see every student.
func (h *StudentHandler) List(c echo.Context) error {
	role := callerRole(c)
	if !policy.Allow(role, policy.ParentOrAdmin, nil) {
		return unauthorized(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		out []model.Student
		err error
	)
	if role == model.RoleAdmin {
		out, err = h.Students.ListAll(ctx)
	} else {
		out, err = h.Students.ListByParent(ctx, callerID(c))
	}
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// Create registers a student under the calling parent.
func (h *StudentHandler) Create(c echo.Context) error {
	if !policy.Allow(callerRole(c), policy.ParentOrAdmin, nil) {
		return unauthorized(c)
	}
	var req createStudentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Student{
		ParentID:       callerID(c),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		DateOfBirth:    dob,
		CurrentProgram: req.CurrentProgram,
		PhotoURL:       req.PhotoURL,
	}
	if err := h.Students.Create(ctx, &s); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// GetByID returns one student after the ownership check.
func (h *StudentHandler) GetByID(c echo.Context) error {
	s, ok, err := loadOwnedStudent(c, h.Students)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// loadOwnedStudent resolves :id and applies the parent-ownership
// policy. A non-admin caller is told "Unauthorized" whether the
// student is missing or merely owned by someone else, so the error
// does not leak which ids exist. When ok is false the response has
// already been written.
func loadOwnedStudent(c echo.Context, store StudentStore) (*model.Student, bool, error) {
	id, err := pathID(c)
	if err != nil {
		return nil, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	role := callerRole(c)
	s, err := store.GetByID(ctx, id)
	if err != nil {
		if role == model.RoleAdmin {
			return nil, false, repoError(c, err)
		}
		return nil, false, unauthorized(c)
	}
	if !policy.Allow(role, policy.ParentOrAdmin, func() bool { return s.ParentID == callerID(c) }) {
		return nil, false, unauthorized(c)
	}
	return s, true, nil
}
