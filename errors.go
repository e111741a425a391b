package nodeless

import "errors"

var (
	// ErrInvalidURL возвращается при некорректном базовом адресе API
	// или невалидном URL в теле ответа.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidTimestamp возвращается, если метку времени из ответа не удалось разобрать.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrUnknownVariant возвращается при неизвестном значении закрытого перечисления.
	ErrUnknownVariant = errors.New("unknown variant")
	// ErrInvalidResponse возвращается, если ответ сервера не удалось интерпретировать.
	ErrInvalidResponse = errors.New("invalid response")
)
