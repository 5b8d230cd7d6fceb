package handler

import "context"

// Pinger 接続確認ができる依存先
type Pinger interface {
	Ping(ctx context.Context) error
}
