package services

import (
	"errors"

	"fishlog_backend/internal/repositories"
	"fishlog_backend/pkg/apperrors"
)

// mapRepoError переводит ошибки репозиториев в ошибки приложения
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repositories.ErrCaptureNotFound):
		return apperrors.ErrCaptureNotFound
	case errors.Is(err, repositories.ErrImageNotFound):
		return apperrors.ErrImageNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrUserAlreadyExists
	default:
		return apperrors.InternalError(err)
	}
}
