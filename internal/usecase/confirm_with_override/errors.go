package confirm_with_override

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrOverrideViolation возвращается, когда override не опирается на
	// зафиксированный результат валидации: снимка нет, снимок содержит
	// hard blocks либо игнорируемые kind-ы не входят в снимок
	ErrOverrideViolation = errors.New("override violation")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("confirm with override: internal error")
)
