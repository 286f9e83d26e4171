// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/olegiv/wcms-go/internal/store"
)

// ValidationError reports input that was rejected before or during a write.
type ValidationError struct {
	Field   string
	Message string
	// Items carries per-item failures of a bulk upsert that committed nothing.
	Items []ItemError
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if len(e.Items) > 0 {
		msg = fmt.Sprintf("%s (%d item errors)", msg, len(e.Items))
	}
	return "validation failed: " + msg
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a uniqueness or referential conflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Message
}

// DatabaseError wraps an unexpected store failure with the operation name.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: database error: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsDatabase reports whether err is a DatabaseError.
func IsDatabase(err error) bool {
	var target *DatabaseError
	return errors.As(err, &target)
}

// IsRetryable reports whether err is a DatabaseError caused by lock
// contention or a transaction timeout. The service never retries itself.
func IsRetryable(err error) bool {
	var dbErr *DatabaseError
	if !errors.As(err, &dbErr) {
		return false
	}
	return store.IsBusy(dbErr.Err) || errors.Is(dbErr.Err, context.DeadlineExceeded)
}

func isDomainError(err error) bool {
	return IsValidation(err) || IsNotFound(err) || IsConflict(err) || IsDatabase(err)
}

// classify passes domain errors through and wraps everything else.
func classify(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	if store.IsUniqueViolation(err) {
		return &ConflictError{Message: uniqueViolationMessage(err)}
	}
	return &DatabaseError{Op: op, Err: err}
}

func uniqueViolationMessage(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "translations."):
		return "a translation already exists for this content element and language"
	case strings.Contains(msg, "languages.code"):
		return "language code already used by this website"
	case strings.Contains(msg, "languages.name"):
		return "language name already used by this website"
	case strings.Contains(msg, "websites.slug"):
		return "website slug already taken"
	default:
		return "duplicate record"
	}
}

func validateID(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &ValidationError{Field: field, Message: fmt.Sprintf("malformed id %q", id)}
	}
	return nil
}

func validateIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := validateID(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
