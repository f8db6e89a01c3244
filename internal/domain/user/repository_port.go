package user

import "context"

// 契約（インターフェース）のみを定義します。
// エンティティ User は同パッケージの entity.go を参照してください。

type CreateUserInput struct {
	// 空の場合は実装側で採番（Firebase Auth 連携時は UID を渡す）
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Username *string `json:"username,omitempty"`
}

// Repository
// Not-found policy: Get* return (nil, nil).
// CreateUser returns ErrConflict when email or username is taken.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*User, error)
}
