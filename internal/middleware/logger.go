package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the request id between client, proxy and logs
const RequestIDHeader = "X-Request-ID"

// maxLoggedBody is the size after which non-JSON bodies are truncated in the log
const maxLoggedBody = 1000

// sensitiveFields contains patterns for fields that should be redacted
var sensitiveFields = []string{
	"password",
	"token",
	"api_key",
	"apikey",
	"api-key",
	"secret",
	"authorization",
	"auth",
	"bearer",
	"credential",
	"session",
	"cookie",
}

// sensitiveHeaderPatterns contains regex patterns for sensitive headers
var sensitiveHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)authorization`),
	regexp.MustCompile(`(?i)api[-_]?key`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)secret`),
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)bearer`),
	regexp.MustCompile(`(?i)cookie`),
	regexp.MustCompile(`(?i)session`),
}

// responseWriter is a custom response writer to capture response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// LoggerConfig holds configuration for the logger middleware
type LoggerConfig struct {
	Format string // "json" or "pretty"
	Level  string // "debug", "info", "warn", "error"
}

// ConfigureLogger applies format and level to a logrus logger
func ConfigureLogger(logger *logrus.Logger, config LoggerConfig) error {
	if config.Format == "pretty" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}

	level := config.Level
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}
	logger.SetLevel(parsed)
	return nil
}

// RequestID makes sure every request carries an id, reusing the one sent by the client
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// RequestResponseLogger creates a middleware that logs all requests and responses
func RequestResponseLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Start timer
		startTime := time.Now()

		// Read and store request body
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			// Restore the body for the next handler
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// Create custom response writer to capture response
		responseBodyWriter := &responseWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = responseBodyWriter

		// Process request
		c.Next()

		fields := buildLogFields(c, requestBody, responseBodyWriter.body.Bytes(), time.Since(startTime))
		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		msg := fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path)
		switch {
		case status >= 500:
			entry.Error(msg)
		case status >= 400:
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
	}
}

// buildLogFields constructs the structured fields for one request
func buildLogFields(c *gin.Context, requestBody, responseBody []byte, latency time.Duration) logrus.Fields {
	fields := logrus.Fields{
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"status_code": c.Writer.Status(),
		"latency":     latency.String(),
		"client_ip":   c.ClientIP(),
		"user_agent":  c.Request.UserAgent(),
		"headers":     redactHeaders(c.Request.Header),
	}

	if query := c.Request.URL.Query(); len(query) > 0 {
		fields["query_params"] = query
	}

	// Add request ID if available
	if requestID := c.GetString("request_id"); requestID != "" {
		fields["request_id"] = requestID
	}

	if len(requestBody) > 0 {
		fields["request_body"] = parseAndRedactBody(c.ContentType(), requestBody)
	}

	if len(responseBody) > 0 {
		responseType := c.Writer.Header().Get("Content-Type")
		if strings.HasPrefix(responseType, "text/html") {
			fields["response_body"] = fmt.Sprintf("[html %d bytes]", len(responseBody))
		} else {
			fields["response_body"] = parseAndRedactBody(responseType, responseBody)
		}
	}

	// Add error if present
	if len(c.Errors) > 0 {
		fields["error"] = c.Errors.String()
	}

	return fields
}

// redactHeaders redacts sensitive headers
func redactHeaders(headers map[string][]string) map[string]string {
	redacted := make(map[string]string)
	for key, values := range headers {
		if isSensitiveHeader(key) {
			redacted[key] = "[REDACTED]"
		} else {
			redacted[key] = strings.Join(values, ", ")
		}
	}
	return redacted
}

// isSensitiveHeader checks if a header name is sensitive
func isSensitiveHeader(headerName string) bool {
	for _, pattern := range sensitiveHeaderPatterns {
		if pattern.MatchString(headerName) {
			return true
		}
	}
	return false
}

// parseAndRedactBody parses a JSON or urlencoded form body and redacts sensitive fields
func parseAndRedactBody(contentType string, body []byte) interface{} {
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if values, err := url.ParseQuery(string(body)); err == nil {
			return redactFormValues(values)
		}
	}

	// Try to parse as JSON
	var jsonBody interface{}
	if err := json.Unmarshal(body, &jsonBody); err != nil {
		// If not JSON, return truncated string
		bodyStr := string(body)
		if len(bodyStr) > maxLoggedBody {
			bodyStr = bodyStr[:maxLoggedBody] + "... (truncated)"
		}
		return bodyStr
	}

	// Redact sensitive fields
	redactSensitiveFields(jsonBody)
	return jsonBody
}

// redactFormValues flattens form values and redacts sensitive keys
func redactFormValues(values url.Values) map[string]string {
	redacted := make(map[string]string, len(values))
	for key, vals := range values {
		if isSensitiveField(key) {
			redacted[key] = "[REDACTED]"
		} else {
			redacted[key] = strings.Join(vals, ", ")
		}
	}
	return redacted
}

// redactSensitiveFields recursively redacts sensitive fields in JSON data
func redactSensitiveFields(data interface{}) {
	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			if isSensitiveField(key) {
				v[key] = "[REDACTED]"
			} else {
				redactSensitiveFields(value)
			}
		}
	case []interface{}:
		for _, item := range v {
			redactSensitiveFields(item)
		}
	}
}

// isSensitiveField checks if a field name is sensitive
func isSensitiveField(fieldName string) bool {
	lowerField := strings.ToLower(fieldName)
	for _, sensitive := range sensitiveFields {
		if strings.Contains(lowerField, sensitive) {
			return true
		}
	}
	return false
}
