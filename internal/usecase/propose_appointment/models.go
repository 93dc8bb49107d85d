package propose_appointment

import "github.com/m04kA/SMC-AppointmentService/internal/domain"

// Response результат предложения записи: запись в её итоговом статусе
// и полный результат валидации. Если валидация нашла hard blocks,
// Appointment остаётся в исходном статусе и Blocked() возвращает true.
type Response struct {
	Appointment *domain.Appointment
	Validation  *domain.ValidationResult
}

// Blocked сообщает, что предложение не прошло из-за hard blocks
func (r *Response) Blocked() bool {
	return r.Validation.IsBlocked()
}
