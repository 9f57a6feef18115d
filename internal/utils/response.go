package utils

import "github.com/gofiber/fiber/v2"

// APIResponse describes the common structure for API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// OK sends a 200 success envelope. meta may be nil.
func OK(c *fiber.Ctx, data interface{}, message string, meta interface{}) error {
	return send(c, fiber.StatusOK, APIResponse{Success: true, Message: message, Data: data, Meta: meta})
}

// Created sends a 201 success envelope.
func Created(c *fiber.Ctx, data interface{}, message string) error {
	return send(c, fiber.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

// Fail sends an error envelope with optional details.
func Fail(c *fiber.Ctx, status int, message string, details interface{}) error {
	if message == "" {
		message = "error"
	}
	return send(c, status, APIResponse{Success: false, Message: message, Details: details})
}

// SendError sends an error envelope without details.
func SendError(c *fiber.Ctx, status int, message string) error {
	return Fail(c, status, message, nil)
}

func send(c *fiber.Ctx, status int, payload APIResponse) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	if payload.Success && payload.Message == "" {
		payload.Message = "success"
	}
	return c.Status(status).JSON(payload)
}
