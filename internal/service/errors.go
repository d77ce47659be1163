package service

import (
	"database/sql"
	"errors"

	"github.com/noah-isme/dojo-api/internal/repository"
	appErrors "github.com/noah-isme/dojo-api/pkg/errors"
)

func notFound(entity string) error {
	return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
}

// checkVersion rejects a write whose version no longer matches the loaded row.
func checkVersion(expected *int, current int) error {
	if expected != nil && *expected != current {
		return appErrors.Clone(appErrors.ErrStaleWrite, "")
	}
	return nil
}

// missingRow reports whether a single-row lookup found nothing. An id that is not a
// valid uuid cannot match a row either.
func missingRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || repository.IsInvalidText(err)
}

// lookupError maps a repository read failure for a single row.
func lookupError(err error, entity string) error {
	if missingRow(err) {
		return notFound(entity)
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

// writeError maps a repository insert or update failure. A missing row on a
// guarded update means another request bumped the version first.
func writeError(err error, expected *int, entity string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if expected != nil {
			return appErrors.Clone(appErrors.ErrStaleWrite, "")
		}
		return notFound(entity)
	case repository.IsInvalidText(err):
		return notFound(entity)
	case repository.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, entity+" already exists")
	case repository.IsForeignKeyViolation(err):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "referenced record not found")
	}
	return appErrors.Internal(err, "failed to save "+entity)
}

// deleteError maps a repository delete failure. Rows that are still referenced
// elsewhere cannot be removed.
func deleteError(err error, entity string) error {
	switch {
	case missingRow(err):
		return notFound(entity)
	case repository.IsForeignKeyViolation(err):
		return appErrors.Wrap(err, appErrors.ErrPreconditionFailed.Code, appErrors.ErrPreconditionFailed.Status, entity+" is still referenced by other records")
	}
	return appErrors.Internal(err, "failed to delete "+entity)
}

func stringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
