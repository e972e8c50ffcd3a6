package checkpoint

import (
	"fmt"

	"pinstats/internal/providers"
	"pinstats/internal/structures"
)

// KVStoreInterface is the minimal durable key-value contract required
// by the checkpoint and result boundaries. Any store satisfying it is
// acceptable.
type KVStoreInterface interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

func NewKVProvider(conf *structures.Config, compressor CompressorInterface, logger providers.Logger) (KVStoreInterface, error) {
	switch conf.Checkpoint.Backend {
	case "redis":
		return NewRedisKV(conf)
	case "file":
		return NewFileKV(conf.Checkpoint.Dir, compressor, logger), nil
	default:
		return nil, fmt.Errorf("unknown checkpoint backend %q", conf.Checkpoint.Backend)
	}
}
