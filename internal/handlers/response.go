package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"rental-service/internal/models"
	"rental-service/internal/services"
)

// SuccessResponse sends a success response
func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *gin.Context, status int, code, message string, err error) {
	apiError := &models.APIError{
		Code:    code,
		Message: message,
	}
	if err != nil {
		apiError.Details = err.Error()
	}

	c.JSON(status, models.APIResponse{
		Success: false,
		Message: message,
		Error:   apiError,
	})
}

// BindingErrorResponse converts a request binding failure into a 400 with
// per-field problems when the failure came from field validation
func BindingErrorResponse(c *gin.Context, err error) {
	apiError := &models.APIError{
		Code:    "VALIDATION_ERROR",
		Message: "Request validation failed",
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, fe := range validationErrs {
			apiError.Fields = append(apiError.Fields, models.FieldError{
				Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
				Message: validationMessage(fe),
			})
		}
	} else {
		apiError.Details = err.Error()
	}

	c.JSON(http.StatusBadRequest, models.APIResponse{
		Success: false,
		Message: "Request validation failed",
		Error:   apiError,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

// ServiceErrorResponse maps typed service errors to HTTP status codes:
// validation 400, not-found 404, conflict 409, everything else 500
func ServiceErrorResponse(c *gin.Context, err error) {
	if validationErr, ok := services.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, models.APIResponse{
			Success: false,
			Message: "Request validation failed",
			Error: &models.APIError{
				Code:    "VALIDATION_ERROR",
				Message: "Request validation failed",
				Fields: []models.FieldError{
					{Field: validationErr.Field, Message: validationErr.Message},
				},
			},
		})
		return
	}

	if notFoundErr, ok := services.IsNotFoundError(err); ok {
		ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Message, nil)
		return
	}

	if conflictErr, ok := services.IsConflictError(err); ok {
		ErrorResponse(c, http.StatusConflict, "CONFLICT", conflictErr.Message, nil)
		return
	}

	logrus.WithError(err).Error("Unhandled service error")
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
}
