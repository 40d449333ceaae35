package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/arstoys/config"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
)

// Config selects and configures the disks a Manager boots.
type Config struct {
	Default string

	LocalRoot string
	LocalURL  string

	S3 S3Config
}

// FromEnv reads storage settings from the config package.
func FromEnv() Config {
	return Config{
		Default:   config.StorageDefault(),
		LocalRoot: config.StorageLocalRoot(),
		LocalURL:  config.StorageURL(),
		S3: S3Config{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		},
	}
}

// Manager owns the configured disks.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultDisk string
}

// NewManager boots the local disk and, when a bucket is configured, the S3
// disk. A failing S3 disk is logged and left out; selecting it as the
// default is then an error.
func NewManager(ctx context.Context, cfg Config) (*Manager, error) {
	local, err := NewLocalDisk(cfg.LocalRoot, cfg.LocalURL)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		disks:       map[string]Disk{"local": local},
		defaultDisk: cfg.Default,
	}
	if m.defaultDisk == "" {
		m.defaultDisk = "local"
	}

	if cfg.S3.Bucket != "" {
		d, err := NewS3Disk(ctx, cfg.S3)
		if err != nil {
			logger.Warn("storage/s3: disk disabled", "error", err)
		} else {
			m.disks["s3"] = d
		}
	}

	if _, ok := m.disks[m.defaultDisk]; !ok {
		return nil, fmt.Errorf("storage: default disk %q is not configured", m.defaultDisk)
	}
	return m, nil
}

// Use returns the named disk.
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Disk returns the default disk.
func (m *Manager) Disk() Disk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.disks[m.defaultDisk]
}

// RegisterDisk plugs in a custom Disk implementation.
func (m *Manager) RegisterDisk(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}
