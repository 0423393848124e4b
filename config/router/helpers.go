package router

import (
	"net/http"
	"strconv"

	"github.com/akeren/choosepure-waitlist/internal/log"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
)

func GetLogger(ctx *RequestContext) *log.Logger {
	return log.GetLoggerInstanceFromContext(ctx.Request.Context(), nil)
}

func OKResult(message string, fields Fields) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusOK, Message: message, Fields: fields}
}

func CreatedResult(message string, fields Fields) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusCreated, Message: message, Fields: fields}
}

func TooManyRequestsResult(data RateLimitResponse) *ServiceResult {
	return &ServiceResult{
		StatusCode: http.StatusTooManyRequests,
		Message:    "Too many requests. Please try again later.",
		Fields:     Fields{"rate_limit": data},
	}
}

// BadRequestResult attaches per-field details under "errors" when present.
func BadRequestResult(message string, details any) *ServiceResult {
	var fields Fields
	if details != nil {
		fields = Fields{"errors": details}
	}
	return &ServiceResult{StatusCode: http.StatusBadRequest, Message: message, Fields: fields}
}

func UnauthorizedResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusUnauthorized, Message: message}
}

func NotFoundResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusNotFound, Message: message}
}

func InternalServerErrorResult(message string) *ServiceResult {
	return &ServiceResult{StatusCode: http.StatusInternalServerError, Message: message}
}

func ErrorResult(statusCode int, message string, fields Fields) *ServiceResult {
	return &ServiceResult{StatusCode: statusCode, Message: message, Fields: fields}
}

// FromError maps an AppError to its status and client-safe message. Internal
// detail never reaches the body.
func FromError(err error) *ServiceResult {
	return ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
}

func ParseIDParam(ctx *RequestContext, paramName string) (uint, *ServiceResult) {
	idParam := ctx.Param(paramName)
	id, err := strconv.ParseUint(idParam, 10, strconv.IntSize)

	if err != nil || id == 0 {
		GetLogger(ctx).Warn("Invalid ID parameter", "param", paramName, "value", idParam)
		return 0, BadRequestResult("Invalid ID parameter", nil)
	}

	return uint(id), nil
}
