package validation

import "errors"

var (
	// ErrInternal возвращается при инфраструктурных сбоях во время валидации
	// (недоступность мастер-данных или хранилища). Это не валидационный
	// вердикт: результат в таком случае не формируется вовсе.
	ErrInternal = errors.New("validation: internal error")
)
