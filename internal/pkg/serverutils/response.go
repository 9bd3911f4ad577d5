package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type BaseResponse[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *BaseResponse[any] {
	return &BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// ValidationError carries every failed field so the client can show them all at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, rule))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule = rule + "=" + fe.Param()
		}
		fields[fe.Field()] = rule
	}
	return &ValidationError{Fields: fields}
}

// StatusMapper lets a feature translate its own sentinel errors into HTTP statuses.
type StatusMapper func(err error) (int, bool)

// ErrorHandlerMiddleware renders any error returned further down the chain as a BaseResponse.
func ErrorHandlerMiddleware(mappers ...StatusMapper) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := resolveError(err, mappers)
		res := ErrorResponse(code, message)

		var verr *ValidationError
		if errors.As(err, &verr) {
			return ctx.Status(code).JSON(&BaseResponse[map[string]string]{
				Success: false,
				Code:    code,
				Message: message,
				Data:    verr.Fields,
			})
		}

		return ctx.Status(code).JSON(res)
	}
}

func resolveError(err error, mappers []StatusMapper) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, "Validation failed"
	}

	for _, m := range mappers {
		if code, ok := m(err); ok {
			return code, err.Error()
		}
	}

	return fiber.StatusInternalServerError, "Internal server error"
}
