package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func TestNext_LegalTransitions(t *testing.T) {
	tests := []struct {
		from  domain.AppointmentStatus
		event Event
		want  domain.AppointmentStatus
	}{
		{domain.StatusDraft, EventPropose, domain.StatusProposed},
		{domain.StatusDraft, EventCancel, domain.StatusCancelled},
		{domain.StatusProposed, EventPropose, domain.StatusProposed},
		{domain.StatusProposed, EventConfirmByClient, domain.StatusAwaitingOperator},
		{domain.StatusProposed, EventCancel, domain.StatusCancelled},
		{domain.StatusAwaitingOperator, EventConfirmByOperator, domain.StatusConfirmed},
		{domain.StatusAwaitingOperator, EventConfirmWithOverride, domain.StatusConfirmedWithOverride},
		{domain.StatusAwaitingOperator, EventReject, domain.StatusRejected},
		{domain.StatusConfirmed, EventCancel, domain.StatusCancelled},
		{domain.StatusConfirmed, EventComplete, domain.StatusCompleted},
		{domain.StatusConfirmedWithOverride, EventCancel, domain.StatusCancelled},
		{domain.StatusConfirmedWithOverride, EventComplete, domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.event), func(t *testing.T) {
			got, err := Next(tt.from, tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_TerminalStatusesHaveNoTransitions(t *testing.T) {
	terminals := []domain.AppointmentStatus{
		domain.StatusRejected,
		domain.StatusCompleted,
		domain.StatusCancelled,
	}
	events := []Event{
		EventPropose, EventConfirmByClient, EventConfirmByOperator,
		EventConfirmWithOverride, EventReject, EventCancel, EventComplete,
	}

	for _, from := range terminals {
		for _, event := range events {
			_, err := Next(from, event)
			assert.ErrorIs(t, err, ErrInvalidTransition, "from=%s event=%s", from, event)
		}
	}
}

func TestNext_IllegalTransitions(t *testing.T) {
	tests := []struct {
		from  domain.AppointmentStatus
		event Event
	}{
		// Ожидание оператора нельзя отменить: клиент уже подтвердил,
		// решение за оператором
		{domain.StatusAwaitingOperator, EventCancel},
		{domain.StatusAwaitingOperator, EventPropose},
		{domain.StatusDraft, EventConfirmByClient},
		{domain.StatusDraft, EventConfirmByOperator},
		{domain.StatusDraft, EventComplete},
		{domain.StatusProposed, EventConfirmByOperator},
		{domain.StatusProposed, EventReject},
		{domain.StatusConfirmed, EventPropose},
		{domain.StatusConfirmed, EventConfirmWithOverride},
		{domain.StatusConfirmedWithOverride, EventReject},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_"+string(tt.event), func(t *testing.T) {
			_, err := Next(tt.from, tt.event)
			assert.ErrorIs(t, err, ErrInvalidTransition)
		})
	}
}

func TestNext_UnknownStatus(t *testing.T) {
	_, err := Next("garbage", EventPropose)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCan(t *testing.T) {
	assert.True(t, Can(domain.StatusDraft, EventPropose))
	assert.False(t, Can(domain.StatusCompleted, EventCancel))
}
