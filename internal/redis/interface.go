package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client is the go-redis surface the ledger store depends on. Tests back it
// with miniredis rather than a mock.
type Client interface {
	redis.UniversalClient
}
