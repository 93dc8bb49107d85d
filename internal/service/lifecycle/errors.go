package lifecycle

import "errors"

var (
	// ErrInvalidTransition возвращается при попытке перехода, отсутствующего
	// в таблице переходов, в том числе из терминального статуса
	ErrInvalidTransition = errors.New("lifecycle: invalid transition")
)
