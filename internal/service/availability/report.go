package availability

// Report факты о доступности слота-кандидата.
// Чекер сообщает только факты: перевод их в hard block или warning -
// зона ответственности движка валидации, не чекера.
type Report struct {
	// ConflictIDs записи того же оператора, пересекающиеся с кандидатом.
	// Пересечение - непереопределяемый сигнал (двойное бронирование ресурса).
	ConflictIDs []string

	// InsideWorkingWindow кандидат целиком лежит хотя бы в одном рабочем
	// окне оператора. Отсутствие настроенных окон = false, а не ошибка:
	// решение должно быть явным, а не молчаливым разрешением.
	InsideWorkingWindow bool

	// HolidayNames праздники, приходящиеся на дату кандидата
	HolidayNames []string
}

// HasConflicts возвращает true при пересечении с существующими записями
func (r *Report) HasConflicts() bool {
	return len(r.ConflictIDs) > 0
}

// IsHoliday возвращает true, если дата кандидата - праздник
func (r *Report) IsHoliday() bool {
	return len(r.HolidayNames) > 0
}
