package controller

import (
	"errors"

	"en-garde-armory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ErrorStatus maps service sentinel errors to HTTP statuses for serverutils.ErrorHandlerMiddleware.
func ErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, service.ErrEquipmentNotFound):
		return fiber.StatusNotFound, true
	}
	return 0, false
}
