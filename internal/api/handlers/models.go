package handlers

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentResponse HTTP-представление записи, общее для всех операций
type AppointmentResponse struct {
	ID              string                   `json:"id"`
	ClientID        int64                    `json:"clientId"`
	OperatorID      int64                    `json:"operatorId"`
	ServiceID       int64                    `json:"serviceId"`
	Date            string                   `json:"date"`
	StartTime       string                   `json:"startTime"`
	DurationMinutes int                      `json:"durationMinutes"`
	Status          string                   `json:"status"`
	Note            *string                  `json:"note,omitempty"`
	LastValidation  *ValidationStampResponse `json:"lastValidation,omitempty"`
	Override        *OverrideResponse        `json:"override,omitempty"`
	CreatedAt       string                   `json:"createdAt"`
	UpdatedAt       string                   `json:"updatedAt"`
}

// ValidationStampResponse снимок последней валидации записи
type ValidationStampResponse struct {
	At           string   `json:"at"`
	Blocked      bool     `json:"blocked"`
	WarningKinds []string `json:"warningKinds"`
}

// OverrideResponse аудиторский след override
type OverrideResponse struct {
	At                  string   `json:"at"`
	OperatorID          int64    `json:"operatorId"`
	Justification       *string  `json:"justification,omitempty"`
	IgnoredWarningKinds []string `json:"ignoredWarningKinds"`
}

// FromAppointment конвертирует доменную запись в HTTP-представление
func FromAppointment(appt *domain.Appointment) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:              appt.ID,
		ClientID:        appt.ClientID,
		OperatorID:      appt.OperatorID,
		ServiceID:       appt.ServiceID,
		Date:            appt.Date.Format(domain.DateFormat),
		StartTime:       appt.StartTime.String(),
		DurationMinutes: appt.DurationMinutes,
		Status:          string(appt.Status),
		Note:            appt.Note,
		CreatedAt:       appt.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       appt.UpdatedAt.Format(time.RFC3339),
	}

	if appt.LastValidation != nil {
		resp.LastValidation = &ValidationStampResponse{
			At:           appt.LastValidation.At.Format(time.RFC3339),
			Blocked:      appt.LastValidation.Blocked,
			WarningKinds: appt.LastValidation.WarningKinds,
		}
	}

	if appt.Override != nil {
		resp.Override = &OverrideResponse{
			At:                  appt.Override.At.Format(time.RFC3339),
			OperatorID:          appt.Override.OperatorID,
			Justification:       appt.Override.Justification,
			IgnoredWarningKinds: appt.Override.IgnoredWarningKinds,
		}
	}

	return resp
}

// ValidationResultResponse полный результат валидации
type ValidationResultResponse struct {
	HardBlocks  []string          `json:"hardBlocks"`
	Warnings    []ValidationIssue `json:"warnings"`
	Suggestions []ValidationIssue `json:"suggestions"`
}

// ValidationIssue предупреждение или подсказка с устойчивым kind
type ValidationIssue struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FromValidationResult конвертирует результат валидации в HTTP-представление
func FromValidationResult(result *domain.ValidationResult) *ValidationResultResponse {
	resp := &ValidationResultResponse{
		HardBlocks:  result.HardBlocks,
		Warnings:    make([]ValidationIssue, 0, len(result.Warnings)),
		Suggestions: make([]ValidationIssue, 0, len(result.Suggestions)),
	}
	if resp.HardBlocks == nil {
		resp.HardBlocks = []string{}
	}
	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, ValidationIssue{Kind: w.Kind, Message: w.Message})
	}
	for _, s := range result.Suggestions {
		resp.Suggestions = append(resp.Suggestions, ValidationIssue{Kind: s.Kind, Message: s.Message})
	}
	return resp
}
