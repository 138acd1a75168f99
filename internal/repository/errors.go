// Package repository contains data access logic separated from HTTP
// handlers. Each operation maps to exactly one store query. Sentinel
// errors let handlers translate failures into the right HTTP status
// without inspecting SQL details.
package repository

import "errors"

// ErrStoreUnavailable is returned by write operations when no database
// connection is configured. Read operations degrade to empty results
// instead (see the individual repositories).
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrUserNotFound is returned when a user cannot be found.
var ErrUserNotFound = errors.New("user not found")

// ErrStudentNotFound is returned when a student cannot be found.
var ErrStudentNotFound = errors.New("student not found")

// ErrMessageNotFound is returned when a message cannot be found.
var ErrMessageNotFound = errors.New("message not found")

// ErrTeacherNotFound is returned when the caller has no teacher
// profile row.
var ErrTeacherNotFound = errors.New("teacher profile not found")

// ErrTemplateNotFound is returned when a message template cannot be
// found.
var ErrTemplateNotFound = errors.New("template not found")
