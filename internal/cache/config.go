package cache

import "time"

// OperationConfig configures caching for a single client operation.
type OperationConfig struct {
	Enabled bool
	TTL     time.Duration
}

// Config configures the two-tier cache across all four client operations.
type Config struct {
	MemoryEnabled bool
	MemorySize    int
	DiskEnabled   bool
	DiskDir       string

	Search    OperationConfig
	Info      OperationConfig
	Comments  OperationConfig
	Pkgbuild  OperationConfig
}

// DefaultConfig returns sane defaults: memory cache enabled with a 500
// entry bound, disk cache disabled, and moderate per-operation TTLs
// reflecting how frequently each kind of data changes upstream.
func DefaultConfig() Config {
	return Config{
		MemoryEnabled: true,
		MemorySize:    500,
		DiskEnabled:   false,
		Search:        OperationConfig{Enabled: true, TTL: 5 * time.Minute},
		Info:          OperationConfig{Enabled: true, TTL: 10 * time.Minute},
		Comments:      OperationConfig{Enabled: true, TTL: 15 * time.Minute},
		Pkgbuild:      OperationConfig{Enabled: true, TTL: time.Hour},
	}
}

// TwoTier composes an optional memory tier in front of an optional disk
// tier. A disk-cache hit is promoted into the memory tier so subsequent
// lookups avoid the filesystem.
type TwoTier struct {
	memory *MemoryCache
	disk   *DiskCache
}

// NewTwoTier builds a TwoTier cache from the given config. Either tier
// may be nil-equivalent if disabled in cfg.
func NewTwoTier(cfg Config) (*TwoTier, error) {
	t := &TwoTier{}
	if cfg.MemoryEnabled {
		t.memory = NewMemoryCache(cfg.MemorySize)
	}
	if cfg.DiskEnabled {
		dir := cfg.DiskDir
		if dir == "" {
			d, err := DefaultCacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		disk, err := NewDiskCache(dir)
		if err != nil {
			return nil, err
		}
		t.disk = disk
	}
	return t, nil
}

// Get looks up key in the memory tier, then the disk tier, promoting a
// disk hit into memory.
func (t *TwoTier) Get(key string) (string, bool) {
	if t.memory != nil {
		if v, ok := t.memory.Get(key); ok {
			return v, true
		}
	}
	if t.disk != nil {
		if v, remaining, ok := t.disk.GetWithRemainingTTL(key); ok {
			if t.memory != nil && remaining > 0 {
				_ = t.memory.Set(key, v, remaining)
			}
			return v, true
		}
	}
	return "", false
}

// Set stores value under key with ttl in every enabled tier.
func (t *TwoTier) Set(key, value string, ttl time.Duration) error {
	if t.memory != nil {
		if err := t.memory.Set(key, value, ttl); err != nil {
			return err
		}
	}
	if t.disk != nil {
		if err := t.disk.Set(key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

// Invalidate removes key from every enabled tier.
func (t *TwoTier) Invalidate(key string) error {
	if t.memory != nil {
		if err := t.memory.Invalidate(key); err != nil {
			return err
		}
	}
	if t.disk != nil {
		if err := t.disk.Invalidate(key); err != nil {
			return err
		}
	}
	return nil
}

// Clear empties every enabled tier.
func (t *TwoTier) Clear() error {
	if t.memory != nil {
		if err := t.memory.Clear(); err != nil {
			return err
		}
	}
	if t.disk != nil {
		if err := t.disk.Clear(); err != nil {
			return err
		}
	}
	return nil
}

var _ Store = (*TwoTier)(nil)
