package middleware

import (
	"strings"
	"time"

	"docverify/pkg/log"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

// personal fields masked in logged request bodies, at any nesting depth
var sensitiveFields = map[string]bool{
	"password": true, "token": true, "secret": true, "authorization": true,
	"email": true, "phone": true, "emergency_contact": true, "emergencycontact": true,
	"date_of_birth": true, "dateofbirth": true, "pin_code": true, "pincode": true,
	"line1": true, "line2": true, "address": true, "addressline1": true, "addressline2": true,
	"text": true, "rawtext": true,
}

func LoggerConfig() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, ok := c.Locals(RequestIDKey).(string)
		if !ok || requestID == "" {
			requestID = "unknown"
		}

		err := c.Next()

		status := c.Response().StatusCode()
		logFields := log.Fields{
			"request_id":    requestID,
			"method":        c.Method(),
			"path":          c.Path(),
			"status":        status,
			"latency_ms":    time.Since(start).Milliseconds(),
			"ip":            c.IP(),
			"user_agent":    c.Get("User-Agent"),
			"response_size": len(c.Response().Body()),
		}

		if body := c.Request().Body(); len(body) > 0 {
			logFields["request_body"] = sanitizeRequestBody(string(c.Request().Header.ContentType()), body)
		}

		switch {
		case status >= 500:
			log.Error(logFields, "Server error")
		case status >= 400:
			log.Warn(logFields, "Client error")
		default:
			log.Info(logFields, "Success")
		}

		return err
	}
}

func sanitizeRequestBody(contentType string, body []byte) string {
	if strings.HasPrefix(contentType, "multipart/") {
		return "[multipart body]"
	}

	var jsonBody interface{}
	if err := jsoniter.Unmarshal(body, &jsonBody); err != nil {
		return "[non-JSON body]"
	}

	sanitized, err := jsoniter.MarshalToString(mask(jsonBody))
	if err != nil {
		return "[sanitization-failed]"
	}

	return sanitized
}

func mask(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, inner := range t {
			if sensitiveFields[strings.ToLower(k)] {
				t[k] = "[SECRET]"
				continue
			}
			t[k] = mask(inner)
		}
	case []interface{}:
		for i := range t {
			t[i] = mask(t[i])
		}
	}
	return v
}
