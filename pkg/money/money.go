// Package money конвертация денежных сумм между основными и минорными единицами валюты.
//
// Внутри сервиса все суммы хранятся в основных единицах (decimal.Decimal),
// конвертация в минорные единицы (копейки/центы) выполняется только на границе
// с платёжным шлюзом, чтобы исключить расхождения из-за плавающей точки.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

// minorUnitFactor количество минорных единиц в одной основной (2 знака после запятой)
var minorUnitFactor = decimal.NewFromInt(100)

var (
	// ErrNegativeAmount возвращается при попытке конвертировать отрицательную сумму
	ErrNegativeAmount = errors.New("money: amount must not be negative")

	// ErrPrecisionLoss возвращается, если сумма содержит доли минорной единицы
	ErrPrecisionLoss = errors.New("money: amount has sub-minor-unit precision")
)

// ToMinorUnits конвертирует сумму в основных единицах в минорные (x100)
// Возвращает ошибку, если сумма отрицательная или содержит доли копейки
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	if amount.IsNegative() {
		return 0, ErrNegativeAmount
	}

	minor := amount.Mul(minorUnitFactor)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, ErrPrecisionLoss
	}

	return minor.IntPart(), nil
}

// FromMinorUnits конвертирует сумму в минорных единицах в основные (/100)
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(minorUnitFactor)
}
