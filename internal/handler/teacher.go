package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/novaschool/parent-portal/internal/metrics"
	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/policy"
	"github.com/novaschool/parent-portal/internal/queue"
	"github.com/novaschool/parent-portal/internal/repository"
)

// TeacherHandler serves the staff dashboard: profile, class rosters,
// cross-student record reads and the class-wide bulk send. Staff may
// read any student's records without a class-membership check; the
// deployment trusts its own teachers.
type TeacherHandler struct {
	Teachers   TeacherStore
	Students   StudentStore
	Progress   ProgressStore
	Attendance AttendanceStore
	Messages   MessageStore
	Users      UserStore
	Events     EventPublisher
}

func NewTeacherHandler(t TeacherStore, s StudentStore, p ProgressStore, a AttendanceStore, m MessageStore, u UserStore, ev EventPublisher) *TeacherHandler {
	return &TeacherHandler{Teachers: t, Students: s, Progress: p, Attendance: a, Messages: m, Users: u, Events: ev}
}

type bulkMessageReq struct {
	ClassName string `json:"class_name" validate:"required,min=1"`
	Subject   string `json:"subject" validate:"required,min=1"`
	Content   string `json:"content" validate:"required,min=1"`
}

type bulkMessageResp struct {
	Success      bool   `json:"success"`
	MessagesSent int    `json:"messages_sent"`
	Message      string `json:"message"`
}

type createTeacherReq struct {
	UserID            uint64   `json:"user_id" validate:"required"`
	Specialization    *string  `json:"specialization"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,min=0"`
	Bio               *string  `json:"bio"`
	ClassesAssigned   []string `json:"classes_assigned"`
}

type assignStudentReq struct {
	TeacherID uint64 `json:"teacher_id" validate:"required"`
	StudentID uint64 `json:"student_id" validate:"required"`
	ClassName string `json:"class_name" validate:"required,min=1"`
}

// profile resolves the caller's teacher row. A staff account without
// one is a hard "Teacher profile not found", never an empty result.
func (h *TeacherHandler) profile(ctx context.Context, c echo.Context) (*model.Teacher, error) {
	return h.Teachers.GetByUserID(ctx, callerID(c))
}

// Profile returns the caller's own teacher record.
func (h *TeacherHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.profile(ctx, c)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Classes returns the distinct class names the caller teaches.
func (h *TeacherHandler) Classes(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.profile(ctx, c)
	if err != nil {
		return repoError(c, err)
	}
	classes, err := h.Teachers.Classes(ctx, t.ID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(classes))
}

// ClassStudents returns the caller's roster for ?class_name=.
func (h *TeacherHandler) ClassStudents(c echo.Context) error {
	className := c.QueryParam("class_name")
	if className == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "class_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.profile(ctx, c)
	if err != nil {
		return repoError(c, err)
	}
	students, err := h.Teachers.StudentsInClass(ctx, t.ID, className)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(students))
}

// StudentProgress returns any student's progress records.
func (h *TeacherHandler) StudentProgress(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Progress.ListByStudent(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// StudentAttendance returns any student's attendance records.
func (h *TeacherHandler) StudentAttendance(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Attendance.ListByStudent(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// MessagesList returns the caller's inbox and sent mail, newest first.
func (h *TeacherHandler) MessagesList(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Messages.ListByUser(ctx, callerID(c))
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, emptyList(out))
}

// MarkMessageRead flips the read flag from the staff side.
func (h *TeacherHandler) MarkMessageRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Messages.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	if err := h.Messages.MarkRead(ctx, id); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SendBulk fans one message out to the distinct parents of every
// student the caller has in the named class. The whole batch lands or
// none of it does. Zero recipients is a success with a zero count so
// the dashboard can tell "nothing to do" from "failed".
func (h *TeacherHandler) SendBulk(c echo.Context) error {
	var req bulkMessageReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	t, err := h.profile(ctx, c)
	if err != nil {
		return repoError(c, err)
	}

	parents, err := h.Teachers.ParentsInClass(ctx, t.ID, req.ClassName)
	if err != nil {
		return repoError(c, err)
	}
	if len(parents) == 0 {
		return c.JSON(http.StatusOK, bulkMessageResp{
			Success:      true,
			MessagesSent: 0,
			Message:      "No parents found in this class",
		})
	}

	recipientIDs := make([]uint64, 0, len(parents))
	for _, p := range parents {
		recipientIDs = append(recipientIDs, p.ID)
	}

	sent, err := h.Messages.CreateBulk(ctx, callerID(c), recipientIDs, req.Subject, req.Content)
	if err != nil {
		return repoError(c, err)
	}

	metrics.MessagesSent.WithLabelValues("bulk").Add(float64(sent))
	if h.Events != nil {
		ev := queue.MessageCreatedEvent{
			Kind:         "bulk",
			SenderID:     callerID(c),
			RecipientIDs: recipientIDs,
			ClassName:    req.ClassName,
			Subject:      req.Subject,
			SentAt:       time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pcancel()
			_ = h.Events.PublishMessageCreated(pctx, ev)
		}()
	}

	return c.JSON(http.StatusOK, bulkMessageResp{
		Success:      true,
		MessagesSent: sent,
		Message:      fmt.Sprintf("Message sent to %d parent(s)", sent),
	})
}

// CreateProfile registers a teacher row for an existing staff user.
// Admin only.
func (h *TeacherHandler) CreateProfile(c echo.Context) error {
	if !policy.Allow(callerRole(c), policy.AdminOnly, nil) {
		return unauthorized(c)
	}
	var req createTeacherReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
		return repoError(c, err)
	}
	if _, err := h.Teachers.GetByUserID(ctx, req.UserID); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "teacher profile already exists"})
	} else if !errors.Is(err, repository.ErrTeacherNotFound) {
		return repoError(c, err)
	}

	t := model.Teacher{
		UserID:            req.UserID,
		Specialization:    req.Specialization,
		YearsOfExperience: req.YearsOfExperience,
		Bio:               req.Bio,
		ClassesAssigned:   req.ClassesAssigned,
	}
	if err := h.Teachers.Create(ctx, &t); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// AssignStudent links a student to a teacher's class. Admin only.
func (h *TeacherHandler) AssignStudent(c echo.Context) error {
	if !policy.Allow(callerRole(c), policy.AdminOnly, nil) {
		return unauthorized(c)
	}
	var req assignStudentReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Students.GetByID(ctx, req.StudentID); err != nil {
		return repoError(c, err)
	}

	a := model.ClassAssignment{
		TeacherID: req.TeacherID,
		StudentID: req.StudentID,
		ClassName: req.ClassName,
	}
	if err := h.Teachers.Assign(ctx, &a); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}
