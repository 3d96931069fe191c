package cache

import (
	"context"
	"time"

	"github.com/matzehuels/netlayout/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Dir        string // file: cache directory; empty means DefaultDir
	URL        string // redis or mongo connection string
	Database   string // mongo database
	Collection string // mongo collection
	Prefix     string // redis key prefix
	TTL        time.Duration
}

// Open creates the configured backend wrapped with [Instrument]. An empty
// backend name means none.
func Open(ctx context.Context, opts Options) (Cache, error) {
	var (
		c   Cache
		err error
	)
	switch opts.Backend {
	case "", BackendNone:
		c = NewNullCache()
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		c, err = NewFileCache(dir)
	case BackendRedis:
		c, err = NewRedisCache(ctx, opts.URL, opts.Prefix)
	case BackendMongo:
		db, coll := opts.Database, opts.Collection
		if db == "" {
			db = "netlayout"
		}
		if coll == "" {
			coll = "cache"
		}
		c, err = NewMongoCache(ctx, opts.URL, db, coll)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c), nil
}
