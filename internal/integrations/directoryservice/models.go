package directoryservice

// ClientInfo модель клиента из DirectoryService
type ClientInfo struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`
}

// Operator модель оператора (мастера) из DirectoryService
type Operator struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Service модель услуги из DirectoryService
type Service struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Active          bool   `json:"active"`
	DurationMinutes int    `json:"duration_minutes"` // 0 = длительность не регламентирована
	BufferMinutes   int    `json:"buffer_minutes"`   // технологический перерыв после услуги
}

// ErrorResponse модель ошибки от DirectoryService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
