package formatting

import (
	"fmt"
	"math"

	"github.com/Freeeeeet/dentist_booking_bot/internal/model"
)

// FormatPrice форматирует цену в рублях, копейки только если они есть
func FormatPrice(price float64) string {
	if price == math.Trunc(price) {
		return fmt.Sprintf("%.0f ₽", price)
	}
	return fmt.Sprintf("%.2f ₽", price)
}

// FormatPriceRange форматирует диапазон цен врача
func FormatPriceRange(r model.PriceRange) string {
	if r.Min == r.Max {
		return FormatPrice(r.Min)
	}
	return fmt.Sprintf("%s - %s", FormatPrice(r.Min), FormatPrice(r.Max))
}
