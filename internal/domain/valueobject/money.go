package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// PriceScale число знаков после запятой для цен (NUMERIC(12,2)).
const PriceScale = 2

// NewPrice проверяет, что цена положительна, и округляет её до копеек.
func NewPrice(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Decimal{}, apperror.New(apperror.ErrCodeValidation, "цена должна быть больше нуля")
	}
	rounded := amount.Round(PriceScale)
	if !rounded.IsPositive() {
		return decimal.Decimal{}, apperror.New(apperror.ErrCodeValidation, "цена слишком мала")
	}
	return rounded, nil
}

// ParsePrice разбирает цену из строки запроса.
func ParsePrice(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, apperror.Wrap(err, apperror.ErrCodeValidation, "некорректный формат цены")
	}
	return NewPrice(amount)
}
