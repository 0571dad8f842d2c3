package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// Константы валидации
const (
	MaxReasonLength        = 500
	MaxEvidenceLength      = 2000
	MaxRemarkLength        = 500
	MaxBargainMessage      = 500
	MaxTradeTypeLength     = 32
	MaxTradeLocationLength = 255
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return invalid(fmt.Sprintf("%s должен быть не менее %d символов", fieldName, min))
	}
	if max > 0 && length > max {
		return invalid(fmt.Sprintf("%s должен быть не более %d символов", fieldName, max))
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(fmt.Sprintf("%s не может быть пустым", fieldName))
	}
	return nil
}

// ValidateReason проверяет причину возврата или спора.
func ValidateReason(reason string) error {
	if err := ValidateNonEmpty("причина", reason); err != nil {
		return err
	}
	return ValidateLength("причина", strings.TrimSpace(reason), 1, MaxReasonLength)
}

// ValidateEvidence проверяет описание доказательств по спору. Поле необязательное.
func ValidateEvidence(evidence string) error {
	return ValidateLength("описание доказательств", evidence, 0, MaxEvidenceLength)
}

// ValidateOrderInput проверяет необязательные поля нового заказа.
func ValidateOrderInput(tradeType, tradeLocation, remark string) error {
	if err := ValidateLength("способ передачи", tradeType, 0, MaxTradeTypeLength); err != nil {
		return err
	}
	if err := ValidateLength("место передачи", tradeLocation, 0, MaxTradeLocationLength); err != nil {
		return err
	}
	return ValidateLength("комментарий", remark, 0, MaxRemarkLength)
}

// ValidateBargainMessage проверяет сообщение к предложению цены.
func ValidateBargainMessage(message string) error {
	return ValidateLength("сообщение", message, 0, MaxBargainMessage)
}

func invalid(message string) error {
	return apperror.New(apperror.ErrCodeValidation, message)
}
