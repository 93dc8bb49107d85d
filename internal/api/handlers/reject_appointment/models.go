package reject_appointment

// RejectRequest HTTP request model. Тело необязательно: отклонение
// без обоснования допустимо.
type RejectRequest struct {
	Justification *string `json:"justification,omitempty"`
}
