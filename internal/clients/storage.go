package clients

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StorageClient keeps export files on local disk and serves them under PublicPrefix.
type StorageClient struct {
	BaseDir      string
	PublicPrefix string
	BaseURL      string
}

// NewLocalStorage creates baseDir if missing.
func NewLocalStorage(baseDir, publicPrefix, baseURL string) (*StorageClient, error) {
	if baseDir == "" {
		baseDir = "./exports"
	}
	if publicPrefix == "" {
		publicPrefix = "/files"
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to ensure storage dir %q: %w", baseDir, err)
	}

	return &StorageClient{BaseDir: baseDir, PublicPrefix: publicPrefix, BaseURL: baseURL}, nil
}

// Save writes data under a random prefix and returns the stored file name.
func (s *StorageClient) Save(ctx context.Context, fileName string, data []byte) (string, error) {
	fileName = filepath.Base(fileName)

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}
	final := fmt.Sprintf("%s_%s", hex.EncodeToString(randBytes), fileName)

	path := filepath.Join(s.BaseDir, final)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize file: %w", err)
	}

	return final, nil
}

// Put saves the file and returns the URL it is served at.
func (s *StorageClient) Put(ctx context.Context, fileName string, data []byte) (string, error) {
	saved, err := s.Save(ctx, fileName, data)
	if err != nil {
		return "", err
	}
	return s.GetURL(saved), nil
}

// GetURL is absolute when BaseURL is set and relative to the server otherwise.
func (s *StorageClient) GetURL(fileName string) string {
	prefix := s.PublicPrefix
	if prefix == "" {
		prefix = "/files"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	prefix = strings.TrimSuffix(prefix, "/")

	if s.BaseURL != "" {
		return strings.TrimSuffix(s.BaseURL, "/") + prefix + "/" + fileName
	}
	return prefix + "/" + fileName
}

// Open resolves a stored file name to its path, refusing anything outside BaseDir.
func (s *StorageClient) Open(fileName string) (path string, downloadName string, err error) {
	clean := filepath.Base(fileName)
	if clean != fileName || clean == "." || clean == ".." {
		return "", "", fs.ErrNotExist
	}

	path = filepath.Join(s.BaseDir, clean)
	info, err := os.Stat(path)
	if err != nil {
		return "", "", err
	}
	if info.IsDir() {
		return "", "", fs.ErrNotExist
	}

	downloadName = clean
	if idx := strings.IndexByte(clean, '_'); idx >= 0 {
		downloadName = clean[idx+1:]
	}
	return path, downloadName, nil
}

// CleanupOlderThan deletes files in BaseDir older than d and returns how many went.
func (s *StorageClient) CleanupOlderThan(d time.Duration) (int, error) {
	now := time.Now()
	removed := 0
	err := filepath.WalkDir(s.BaseDir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}
		if now.Sub(info.ModTime()) > d {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed, err
}
