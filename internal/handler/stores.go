package handler

import (
	"context"
	"time"

	"github.com/novaschool/parent-portal/internal/model"
	"github.com/novaschool/parent-portal/internal/queue"
	"github.com/novaschool/parent-portal/internal/repository"
)

// Store interfaces consumed by the handlers. The repository types
// satisfy them; tests substitute fakes.

type UserStore interface {
	Upsert(ctx context.Context, in repository.UserUpsert) error
	GetByOpenID(ctx context.Context, openID string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	ListStaff(ctx context.Context) ([]model.User, error)
}

type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

type StudentStore interface {
	ListByParent(ctx context.Context, parentID uint64) ([]model.Student, error)
	ListAll(ctx context.Context) ([]model.Student, error)
	GetByID(ctx context.Context, id uint64) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
}

type ProgressStore interface {
	ListByStudent(ctx context.Context, studentID uint64) ([]model.ProgressRecord, error)
	Create(ctx context.Context, p *model.ProgressRecord) error
}

type AttendanceStore interface {
	ListByStudent(ctx context.Context, studentID uint64) ([]model.AttendanceRecord, error)
	Create(ctx context.Context, a *model.AttendanceRecord) error
}

type MilestoneStore interface {
	ListByStudent(ctx context.Context, studentID uint64) ([]model.Milestone, error)
	Create(ctx context.Context, m *model.Milestone) error
}

type MessageStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.Message, error)
	GetByID(ctx context.Context, id uint64) (*model.Message, error)
	Create(ctx context.Context, m *model.Message) error
	MarkRead(ctx context.Context, id uint64) error
	UnreadCount(ctx context.Context, userID uint64) (int, error)
	CreateBulk(ctx context.Context, senderID uint64, recipientIDs []uint64, subject, content string) (int, error)
}

type TeacherStore interface {
	GetByUserID(ctx context.Context, userID uint64) (*model.Teacher, error)
	Create(ctx context.Context, t *model.Teacher) error
	Classes(ctx context.Context, teacherID uint64) ([]string, error)
	StudentsInClass(ctx context.Context, teacherID uint64, className string) ([]model.Student, error)
	ParentsInClass(ctx context.Context, teacherID uint64, className string) ([]model.User, error)
	Assign(ctx context.Context, a *model.ClassAssignment) error
}

type TemplateStore interface {
	ListByTeacher(ctx context.Context, teacherID uint64) ([]model.MessageTemplate, error)
	ListDefaults(ctx context.Context) ([]model.MessageTemplate, error)
	GetByID(ctx context.Context, id uint64) (*model.MessageTemplate, error)
	Create(ctx context.Context, t *model.MessageTemplate) error
	Update(ctx context.Context, id uint64, in repository.TemplateUpdate) (*model.MessageTemplate, error)
	Delete(ctx context.Context, id uint64) error
}

// EventPublisher pushes domain events to the broker. Failures never
// fail the originating request.
type EventPublisher interface {
	PublishMessageCreated(ctx context.Context, ev queue.MessageCreatedEvent) error
}
