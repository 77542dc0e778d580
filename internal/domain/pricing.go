package domain

import "math"

// Round2 округляет до 2 знаков после запятой (half-up)
// Округление применяется на каждом шаге расчета, а не только в конце:
// так итоговые суммы совпадают с внешне наблюдаемыми (чеки, выписки шлюза)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceBreakdown расчет стоимости бронирования
type PriceBreakdown struct {
	BasePrice   float64
	PlatformFee float64
	TotalPrice  float64
}

// CalculatePrice рассчитывает стоимость сессии
// base = round2(hourlyRate * minutes/60)
// fee = round2(base * feeRate)
// total = round2(base + fee)
func CalculatePrice(hourlyRate float64, durationMinutes int, feeRate float64) PriceBreakdown {
	base := Round2(hourlyRate * float64(durationMinutes) / 60)
	fee := Round2(base * feeRate)
	total := Round2(base + fee)

	return PriceBreakdown{
		BasePrice:   base,
		PlatformFee: fee,
		TotalPrice:  total,
	}
}

// SessionHourlyRate возвращает почасовую ставку для типа сессии
// Для групповых сессий используется групповая ставка,
// при её отсутствии - 60% от индивидуальной
func SessionHourlyRate(sessionType SessionType, hourlyRate float64, groupHourlyRate *float64) float64 {
	if sessionType != SessionGroup {
		return hourlyRate
	}
	if groupHourlyRate != nil {
		return *groupHourlyRate
	}
	return hourlyRate * GroupRateFraction
}
