package domain

import (
	"errors"
	"fmt"
)

// 各エラー種別のセンチネルです。errors.Is で判定できます。
var (
	ErrValidation = errors.New("validation error")
	ErrTransport  = errors.New("transport error")
	ErrAPI        = errors.New("api error")
	ErrDecode     = errors.New("decode error")
	ErrPermission = errors.New("permission error")

	// ErrBusy は、生成リクエストが既に実行中のときに返されます。
	ErrBusy = errors.New("a generation request is already in flight")
)

// Error は種別と詳細メッセージを持つエラーです。
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Detail == "" {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

// Is は Kind との比較を可能にします。
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message はユーザーに表示するための文言を返します。
func (e *Error) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func ValidationError(detail string) error {
	return &Error{Kind: ErrValidation, Detail: detail}
}

func TransportError(err error) error {
	return &Error{Kind: ErrTransport, Err: err}
}

func APIError(msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	return &Error{Kind: ErrAPI, Detail: msg}
}

func DecodeError(err error) error {
	return &Error{Kind: ErrDecode, Err: err}
}

func PermissionError(detail string, err error) error {
	return &Error{Kind: ErrPermission, Detail: detail, Err: err}
}

// UserMessage は任意のエラーを単一の表示用メッセージに変換します。
func UserMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message()
	}
	return err.Error()
}
