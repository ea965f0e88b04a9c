package cache

import "time"

const (
	DefaultMaxSize = 1024
	DefaultMemoTTL = time.Hour
)

// MemoryOption configures Memory cache.
type MemoryOption func(*MemoryConfig)

// MemoryConfig holds memory cache configuration.
type MemoryConfig struct {
	Name     string
	MaxSize  int
	Clock    func() time.Time
	Recorder Recorder
}

// WithMemoryName sets the label reported to the recorder.
func WithMemoryName(name string) MemoryOption {
	return func(c *MemoryConfig) {
		c.Name = name
	}
}

// WithMemoryMaxSize sets max cache size.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(c *MemoryConfig) {
		c.MaxSize = size
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryConfig) {
		c.Clock = now
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) MemoryOption {
	return func(c *MemoryConfig) {
		c.Recorder = r
	}
}

// RedisOption configures Redis cache.
type RedisOption func(*RedisConfig)

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
	Prefix       string
}

// WithRedisAddr sets Redis host:port.
func WithRedisAddr(addr string) RedisOption {
	return func(c *RedisConfig) {
		c.Addr = addr
	}
}

// WithRedisPassword sets Redis password.
func WithRedisPassword(password string) RedisOption {
	return func(c *RedisConfig) {
		c.Password = password
	}
}

// WithRedisDB sets Redis database number.
func WithRedisDB(db int) RedisOption {
	return func(c *RedisConfig) {
		c.DB = db
	}
}

// WithRedisPool sets connection pool settings.
func WithRedisPool(poolSize, minIdleConns int, timeout time.Duration) RedisOption {
	return func(c *RedisConfig) {
		c.PoolSize = poolSize
		c.MinIdleConns = minIdleConns
		c.PoolTimeout = timeout
	}
}

// WithRedisPrefix sets key prefix.
func WithRedisPrefix(prefix string) RedisOption {
	return func(c *RedisConfig) {
		c.Prefix = prefix
	}
}

// LayeredOption configures Layered cache.
type LayeredOption func(*LayeredConfig)

// LayeredConfig holds layered cache configuration.
type LayeredConfig struct {
	L2Timeout time.Duration
	OnError   func(op string, err error)
}

// WithL2Timeout bounds every Redis round trip made by the layered cache.
func WithL2Timeout(d time.Duration) LayeredOption {
	return func(c *LayeredConfig) {
		c.L2Timeout = d
	}
}

// WithL2ErrorHandler receives L2 failures, which never fail the caller.
func WithL2ErrorHandler(fn func(op string, err error)) LayeredOption {
	return func(c *LayeredConfig) {
		c.OnError = fn
	}
}

// MemoOption configures Memo.
type MemoOption func(*MemoConfig)

// MemoConfig holds memoization settings.
type MemoConfig struct {
	TTL          time.Duration
	SingleFlight bool
	// FetchTimeout bounds a shared fetch, which outlives any single caller.
	// Zero leaves it unbounded.
	FetchTimeout time.Duration
}

// WithMemoTTL sets how long fetched values stay cached.
func WithMemoTTL(ttl time.Duration) MemoOption {
	return func(c *MemoConfig) {
		c.TTL = ttl
	}
}

// WithSingleFlight toggles collapsing of concurrent misses on the same key.
func WithSingleFlight(enabled bool) MemoOption {
	return func(c *MemoConfig) {
		c.SingleFlight = enabled
	}
}

// WithFetchTimeout bounds fetches shared between concurrent callers.
func WithFetchTimeout(d time.Duration) MemoOption {
	return func(c *MemoConfig) {
		c.FetchTimeout = d
	}
}
