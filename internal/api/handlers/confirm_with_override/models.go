package confirm_with_override

import (
	confirmWithOverride "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_with_override"
)

// ConfirmWithOverrideRequest HTTP request model
type ConfirmWithOverrideRequest struct {
	Justification       *string  `json:"justification,omitempty"`
	IgnoredWarningKinds []string `json:"ignoredWarningKinds"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ConfirmWithOverrideRequest) ToUseCaseRequest(appointmentID string, operatorID int64) *confirmWithOverride.Request {
	return &confirmWithOverride.Request{
		AppointmentID:       appointmentID,
		OperatorID:          operatorID,
		Justification:       r.Justification,
		IgnoredWarningKinds: r.IgnoredWarningKinds,
	}
}
