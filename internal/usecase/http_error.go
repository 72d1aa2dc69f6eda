package usecase

import (
	"errors"
	"fmt"
)

// usecaseが返すエラーはすべてHTTPステータスを持つ。
// 400=入力不正 404=無い 403=権限なし 409=競合 500=内部エラー。
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
