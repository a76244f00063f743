package netutils

import (
	"context"
	"time"
)

// Checker Интерфейс для проверки доступности сети.
type Checker interface {
	CheckTCP(ctx context.Context, address string, port string, timeout time.Duration) bool
}
