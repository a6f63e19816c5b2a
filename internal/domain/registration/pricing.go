package registration

// ══════════════════════════════════════════════════════════════════════════════
// PRICING
// ══════════════════════════════════════════════════════════════════════════════

const (
	// LoyaltyThreshold - минимальное число текущих курсов студента,
	// начиная с которого действует скидка.
	LoyaltyThreshold = 2

	// LoyaltyPercent - доля цены (в процентах), которую платит студент со скидкой.
	LoyaltyPercent = 75
)

// Price возвращает цену, которую заплатит студент с ongoingCount текущими
// курсами за курс с базовой ценой basePrice.
func Price(basePrice int64, ongoingCount int) int64 {
	if ongoingCount >= LoyaltyThreshold {
		return Discounted(basePrice)
	}
	return basePrice
}

// DiscountApplies сообщает, действует ли скидка при ongoingCount текущих курсах.
func DiscountApplies(ongoingCount int) bool {
	return ongoingCount >= LoyaltyThreshold
}

// Discounted возвращает basePrice * 0.75 с отбрасыванием дробной части.
// Считается в целых числах: p/4*3 + (p%4)*3/4 == floor(p*3/4) для p >= 0
// без переполнения int64 и без ошибок округления float64.
func Discounted(basePrice int64) int64 {
	q, r := basePrice/4, basePrice%4
	return q*3 + r*3/4
}
