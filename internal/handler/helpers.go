package handler

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ridwanfathin/invoice-dashboard/internal/model"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getQueryInt retrieves an integer query parameter with a default value
func getQueryInt(c *gin.Context, paramName string, defaultValue int) (int, error) {
	valueStr := c.Query(paramName)
	if valueStr == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}

	return value, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// validatePagination validates and returns pagination parameters
func validatePagination(page, limit int) error {
	if page < 1 {
		return fmt.Errorf("page must be greater than 0")
	}
	if limit < 1 || limit > 100 {
		return fmt.Errorf("limit must be between 1 and 100")
	}
	return nil
}

// buildValidationErrors converts action field errors to an ErrorDetail slice ordered by field
func buildValidationErrors(errors map[string][]string) []model.ErrorDetail {
	fields := make([]string, 0, len(errors))
	for field := range errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]model.ErrorDetail, 0, len(errors))
	for _, field := range fields {
		for _, message := range errors[field] {
			details = append(details, model.ErrorDetail{
				Field:   field,
				Message: message,
			})
		}
	}
	return details
}

// logError records a failed request with its context
func logError(c *gin.Context, event string, err error, fields map[string]interface{}) {
	entry := logrus.WithFields(logrus.Fields{
		"event":  event,
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	})
	if requestID := c.GetString("request_id"); requestID != "" {
		entry = entry.WithField("request_id", requestID)
	}
	if userID := c.GetString("userID"); userID != "" {
		entry = entry.WithField("user_id", userID)
	}
	entry.WithFields(logrus.Fields(fields)).WithError(err).Error(event)
}
