package service

import "fmt"

const (
	CodeNotFound    = "NOT_FOUND"
	CodeValidation  = "VALIDATION_ERROR"
	CodeInvalidFile = "INVALID_FILE"
)

// ошибка бизнес-логики; хендлеры переводят код в HTTP-статус
type BusinessError struct {
	Code    string
	Message string
	Details []string
	Err     error
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func (b *BusinessError) Unwrap() error {
	return b.Err
}

func NewNotFound(message string, err error) *BusinessError {
	return &BusinessError{
		Code:    CodeNotFound,
		Message: message,
		Err:     err,
	}
}

// details перечисляют каждое нарушенное поле
func NewValidationError(details []string) *BusinessError {
	return &BusinessError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Details: details,
	}
}

func NewInvalidFile(message string) *BusinessError {
	return &BusinessError{
		Code:    CodeInvalidFile,
		Message: message,
	}
}
