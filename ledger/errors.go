package ledger

import "errors"

var (
	// ErrAccountNotFound – аккаунта с таким email/кодом нет. На границе
	// вебхука это не ошибка: провайдеру достаточно подтверждения приёма.
	ErrAccountNotFound = errors.New("account not found")

	// ErrIdentityMismatch – email плательщика из шлюза не совпадает
	// с email аккаунта. Поддельное или чужое подтверждение.
	ErrIdentityMismatch = errors.New("payer identity mismatch")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOutsideWindow       = errors.New("outside withdrawal window")
	ErrInvalidAmount       = errors.New("invalid amount")
)
