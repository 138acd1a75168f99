package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/repository"
)

// TemplateHandler serves message templates. Defaults (no owning
// teacher, is_default=1) are world-readable; everything else is bound
// to the caller's teacher profile, with no admin bypass.
type TemplateHandler struct {
	Teachers  TeacherStore
	Templates TemplateStore
}

func NewTemplateHandler(t TeacherStore, tpl TemplateStore) *TemplateHandler {
	return &TemplateHandler{Teachers: t, Templates: tpl}
}

type createTemplateReq struct {
	Name     string  `json:"name" validate:"required,min=1"`
	Subject  string  `json:"subject" validate:"required,min=1"`
	Content  string  `json:"content" validate:"required,min=1"`
	Category *string `json:"category"`
}

type updateTemplateReq struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Subject  *string `json:"subject" validate:"omitempty,min=1"`
	Content  *string `json:"content" validate:"omitempty,min=1"`
	Category *string `json:"category"`
}

// Defaults returns the shared system templates. Public; no session
// required.
func (h *TemplateHandler) Defaults(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Templates.ListDefaults(ctx)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// Mine lists the caller's own templates. A staff account with no
// teacher profile simply has no templates yet.
func (h *TemplateHandler) Mine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Teachers.GetByUserID(ctx, callerID(c))
	if err != nil {
		if errors.Is(err, repository.ErrTeacherNotFound) {
			return c.JSON(http.StatusOK, []model.MessageTemplate{})
		}
		return repoError(c, err)
	}
	out, err := h.Templates.ListByTeacher(ctx, t.ID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// Create stores a template owned by the caller's teacher profile.
func (h *TemplateHandler) Create(c echo.Context) error {
	var req createTemplateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Teachers.GetByUserID(ctx, callerID(c))
	if err != nil {
		return repoError(c, err)
	}

	tpl := model.MessageTemplate{
		TeacherID: &t.ID,
		Name:      req.Name,
		Subject:   req.Subject,
		Content:   req.Content,
		Category:  req.Category,
	}
	if err := h.Templates.Create(ctx, &tpl); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, tpl)
}

// GetByID returns one template: any default, or one of the caller's
// own.
func (h *TemplateHandler) GetByID(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tpl, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if tpl.IsDefault == 1 {
		return c.JSON(http.StatusOK, tpl)
	}
	if ok, err := h.ownedTemplate(ctx, c, tpl); !ok {
		return err
	}
	return c.JSON(http.StatusOK, tpl)
}

// Update applies a partial edit to one of the caller's templates.
func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}
	var req updateTemplateReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tpl, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if ok, err := h.ownedTemplate(ctx, c, tpl); !ok {
		return err
	}

	updated, err := h.Templates.Update(ctx, id, repository.TemplateUpdate{
		Name:     req.Name,
		Subject:  req.Subject,
		Content:  req.Content,
		Category: req.Category,
	})
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes one of the caller's templates. Defaults cannot be
// deleted through the API.
func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tpl, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if ok, err := h.ownedTemplate(ctx, c, tpl); !ok {
		return err
	}
	if err := h.Templates.Delete(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ownedTemplate enforces that the template belongs to the caller's
// teacher profile. Ownership here is profile-bound, not role-bound, so
// even admins need a matching profile. When ok is false the response
// has already been written.
func (h *TemplateHandler) ownedTemplate(ctx context.Context, c echo.Context, tpl *model.MessageTemplate) (bool, error) {
	t, err := h.Teachers.GetByUserID(ctx, callerID(c))
	if err != nil {
		return false, repoError(c, err)
	}
	if tpl.TeacherID == nil || *tpl.TeacherID != t.ID {
		return false, unauthorized(c)
	}
	return true, nil
}
