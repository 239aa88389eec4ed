package config

import (
	"fmt"
	"sync"
)

const (
	// SectionIDStorage is the identifier for the storage section
	SectionIDStorage = "storage"

	// Storage backends
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	defaultBackend   = BackendFile
	defaultRedisAddr = "localhost:6379"
)

// StorageSection selects where reservations, profile and selection are kept.
type StorageSection struct {
	Backend   string `json:"backend"`
	Path      string `json:"path"`
	RedisAddr string `json:"redis_addr"`
	RedisDB   int    `json:"redis_db"`
	mu        sync.RWMutex
}

// NewStorageSection creates a storage section with default settings.
func NewStorageSection() *StorageSection {
	return &StorageSection{
		Backend:   defaultBackend,
		RedisAddr: defaultRedisAddr,
	}
}

// ID returns the section identifier.
func (s *StorageSection) ID() string {
	return SectionIDStorage
}

// Title returns the section title.
func (s *StorageSection) Title() string {
	return "Storage"
}

// Description returns the section description.
func (s *StorageSection) Description() string {
	return "Key-value backend for scraped reservations, the user profile and the selected interval."
}

// Data returns the current configuration data.
func (s *StorageSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"backend":    s.Backend,
		"path":       s.Path,
		"redis_addr": s.RedisAddr,
		"redis_db":   s.RedisDB,
	}
}

// SetData updates the configuration from the provided data.
func (s *StorageSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "backend":
			s.Backend, err = asString(key, value)
		case "path":
			s.Path, err = asString(key, value)
		case "redis_addr":
			s.RedisAddr, err = asString(key, value)
		case "redis_db":
			s.RedisDB, err = asInt(key, value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate validates the current configuration.
func (s *StorageSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if s.RedisAddr == "" {
			return fmt.Errorf("redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want %s, %s or %s)", s.Backend, BackendFile, BackendRedis, BackendMemory)
	}
	if s.RedisDB < 0 || s.RedisDB > 15 {
		return fmt.Errorf("redis_db must be between 0 and 15, got %d", s.RedisDB)
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *StorageSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Backend = defaultBackend
	s.Path = ""
	s.RedisAddr = defaultRedisAddr
	s.RedisDB = 0
}

// Settings returns a snapshot of the storage settings.
func (s *StorageSection) Settings() (backend, path, redisAddr string, redisDB int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Backend, s.Path, s.RedisAddr, s.RedisDB
}
