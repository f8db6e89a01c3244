package common

import (
	"context"
	"errors"
	"fmt"
)

// ErrBackendUnavailable はストレージが未設定・到達不能・タイムアウトの場合に返す。
// 読み取り系でも握りつぶさず呼び出し元へ伝播させること。
var ErrBackendUnavailable = errors.New("storage: backend unavailable")

// Unavailable wraps cause so that errors.Is(err, ErrBackendUnavailable) holds.
func Unavailable(op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, ErrBackendUnavailable)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, cause)
}

// IsUnavailable reports whether err is a backend failure (including context deadline).
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrBackendUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}
