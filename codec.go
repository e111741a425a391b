package nodeless

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// timestampLayout задаёт формат меток времени на проводе: RFC3339 в UTC
// с микросекундами, дополненными нулями.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp представляет момент времени в целых секундах эпохи UNIX.
// Для необязательных полей используется *Timestamp.
type Timestamp int64

// Time возвращает момент времени в UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// MarshalJSON сериализует метку времени в строку формата API.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time().Format(timestampLayout))
}

// UnmarshalJSON разбирает строку RFC3339 и усекает её до целых секунд UTC.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimestamp, err)
	}

	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	*t = Timestamp(parsed.UTC().Unix())
	return nil
}

// URL оборачивает net/url.URL и сериализуется в JSON-строку.
// Принимаются только абсолютные адреса. Для необязательных полей используется *URL.
type URL struct {
	url.URL
}

// ParseURL разбирает строку в URL. Для некорректного или относительного
// адреса возвращается ошибка ErrInvalidURL.
func ParseURL(raw string) (*URL, error) {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}
	return &URL{URL: *parsed}, nil
}

// MarshalJSON сериализует URL в его строковую форму.
func (u URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON разбирает JSON-строку в URL.
func (u *URL) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidURL, err)
	}

	parsed, err := ParseURL(s)
	if err != nil {
		return err
	}

	*u = *parsed
	return nil
}
