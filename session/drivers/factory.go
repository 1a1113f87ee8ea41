package drivers

import (
	"github.com/creastat/docstore/session"
)

// NewStore creates a new session.Store based on the given type.
// Supports "memory", "redis" and "bolt" driver types.
// For Redis, requires WithRedisClient option.
// For bolt, requires WithBoltDB or WithBoltPath.
func NewStore(storeType session.StoreType, opts ...session.StoreOption) (session.Store, error) {
	config := session.NewConfig(opts...)

	switch storeType {
	case session.StoreTypeMemory:
		return NewInMemoryStore(), nil

	case session.StoreTypeRedis:
		if config.RedisClient == nil {
			return nil, session.ErrInvalidConfig
		}
		return NewRedisStore(config.RedisClient, opts...), nil

	case session.StoreTypeBolt:
		switch {
		case config.BoltDB != nil:
			return NewBoltStore(config.BoltDB)
		case config.BoltPath != "":
			return OpenBoltStore(config.BoltPath)
		}
		return nil, session.ErrInvalidConfig

	default:
		return nil, session.ErrInvalidStoreType
	}
}
