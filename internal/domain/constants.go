package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinDurationMinutes        = 1
	MaxDurationMinutes        = 24 * 60
	MaxNoteLength             = 500
	MaxJustificationLength    = 500
	DefaultBookingHorizonDays = 0 // 0 = без ограничения
)

// ReleasedStatuses статусы, в которых запись освобождает слот оператора.
// Используется при проверке пересечений: такие записи не учитываются.
var ReleasedStatuses = []AppointmentStatus{
	StatusRejected,
	StatusCancelled,
}

// TerminalStatuses статусы, из которых нет легальных переходов
var TerminalStatuses = []AppointmentStatus{
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}

// AllStatuses полный список статусов записи
var AllStatuses = []AppointmentStatus{
	StatusDraft,
	StatusProposed,
	StatusAwaitingOperator,
	StatusConfirmed,
	StatusConfirmedWithOverride,
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}
