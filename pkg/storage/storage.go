// Package storage abstracts where uploaded catalog images live.
//
// Two drivers: "local" (filesystem, default) and "s3" (S3-compatible object
// storage — AWS, MinIO, R2). Boot once at startup:
//
//	storage.Connect()
//	storage.Put("tools/abc.jpg", data)
//	url := storage.URL("tools/abc.jpg")
package storage

import (
	"fmt"
	"io"
	"sync"

	"makers/config"
)

// Disk is the driver interface.
type Disk interface {
	Put(path string, content []byte) error
	PutStream(path string, r io.Reader) error
	Get(path string) ([]byte, error)
	GetStream(path string) (io.ReadCloser, error)
	Exists(path string) bool
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. The local disk is always available;
// the s3 disk is added only when S3_BUCKET is configured.
func Connect() error {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDefault()
	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		d, err := newS3Disk()
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		disks["s3"] = d
	}

	if _, ok := disks[defaultDisk]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", defaultDisk)
	}
	return nil
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Register plugs in a custom Disk, used by tests to substitute a fake.
func Register(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	if defaultDisk == "" {
		defaultDisk = name
	}
	managerMu.Unlock()
}

func defaultD() Disk { return Use(defaultDisk) }

// Default-disk helpers.

func Put(path string, content []byte) error    { return defaultD().Put(path, content) }
func PutStream(path string, r io.Reader) error { return defaultD().PutStream(path, r) }
func Get(path string) ([]byte, error)          { return defaultD().Get(path) }
func Exists(path string) bool                  { return defaultD().Exists(path) }
func Delete(path string) error                 { return defaultD().Delete(path) }
func URL(path string) string                   { return defaultD().URL(path) }
