package formatting

// pluralize выбирает форму слова для числа: one (1, 21), few (2-4, 22-24), many (остальные)
func pluralize(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeSlots возвращает правильное склонение слова "слот"
func PluralizeSlots(count int) string {
	return pluralize(count, "слот", "слота", "слотов")
}

// PluralizeAppointments возвращает правильное склонение слова "запись"
func PluralizeAppointments(count int) string {
	return pluralize(count, "запись", "записи", "записей")
}

// PluralizeDentists возвращает правильное склонение слова "врач"
func PluralizeDentists(count int) string {
	return pluralize(count, "врач", "врача", "врачей")
}
