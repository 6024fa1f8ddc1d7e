package common

const (
	DefaultCategory = "Uncategorized"

	RedisKeyLastPrice = "last_price:%s"
)
