package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/internal/middleware"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// validationDetails maps each failing field namespace to the rule it broke.
func validationDetails(err error) (map[string]string, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		namespace := fieldErr.Namespace()
		if index := strings.Index(namespace, "."); index >= 0 {
			namespace = namespace[index+1:]
		}
		rule := fieldErr.Tag()
		if fieldErr.Param() != "" {
			rule += "=" + fieldErr.Param()
		}
		details[namespace] = rule
	}
	return details, true
}

func ownerFromContext(c *fiber.Ctx) (uint, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errors.New("missing authenticated user")
	}
	return id, nil
}
