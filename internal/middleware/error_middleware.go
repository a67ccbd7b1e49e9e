package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanmay/placementdesk/internal/app/models/dto"
	"github.com/tanmay/placementdesk/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to user-facing responses. Messages
// stay generic and human-readable; callers never see raw database errors.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrRecordNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Placement record not found")))

	case errors.Is(err, apperrors.ErrDuplicateRegNo):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, "Registration number already exists")))

	case errors.Is(err, apperrors.ErrEmptyUpload),
		errors.Is(err, apperrors.ErrCSVHeaderInvalid),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	case errors.Is(err, apperrors.ErrStorageUnavailable),
		errors.Is(err, apperrors.ErrFetchFailed),
		errors.Is(err, apperrors.ErrExportFailed):
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Internal Server Error")))

	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal Server Error")))
	}
}
