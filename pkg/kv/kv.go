// Package kv provides the small durable key-value capability backing the
// checked-state store and the durable tier of the edge cache. Callers
// treat every failure as best-effort: log it and fall back to defaults.
package kv

import (
	"os"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// Store reads and writes opaque string values by key.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Disk is a Store persisted under a base directory, one file per key.
type Disk struct {
	d *diskv.Diskv
}

// OpenDisk creates (or reuses) a disk-backed store rooted at basePath.
func OpenDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return nil },
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (s *Disk) Get(key string) (string, bool, error) {
	data, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(data), true, nil
}

func (s *Disk) Set(key, value string) error {
	return s.d.Write(key, []byte(value))
}

// Memory is an in-process Store used by tests and as the fast tier of the
// edge cache.
type Memory struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
