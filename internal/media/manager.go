package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/Ladybert/web-api-client/internal/model"
	"github.com/Ladybert/web-api-client/pkg/logger"
	"github.com/Ladybert/web-api-client/prometheus"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager ties stored files to the image paths kept on records
type Manager struct {
	storage Storage
	prefix  string
	metrics *prometheus.Metrics
}

// NewManager creates a manager whose public paths start with publicPrefix
func NewManager(storage Storage, publicPrefix string, metrics *prometheus.Metrics) *Manager {
	return &Manager{
		storage: storage,
		prefix:  strings.Trim(publicPrefix, "/"),
		metrics: metrics,
	}
}

// PublicPrefix returns the URL segment stored files are served under
func (m *Manager) PublicPrefix() string {
	return m.prefix
}

// PublicPath maps a storage key to the path kept on the record
func (m *Manager) PublicPath(key string) string {
	return m.prefix + "/" + key
}

// KeyFor maps a recorded path back to its storage key
func (m *Manager) KeyFor(p string) (string, bool) {
	p = strings.TrimLeft(strings.TrimSpace(p), "/")
	key, ok := strings.CutPrefix(p, m.prefix+"/")
	if !ok || key == "" {
		return "", false
	}
	return key, true
}

// Store writes every upload under dir and returns their public paths.
// If one upload fails, the files already written are removed.
func (m *Manager) Store(ctx context.Context, dir string, files []*multipart.FileHeader) (model.ImagePaths, error) {
	log := logger.Ctx(ctx)

	stored := make(model.ImagePaths, 0, len(files))
	for _, fh := range files {
		key, err := m.storeOne(ctx, dir, fh)
		if err != nil {
			log.Error("Failed to store uploaded file",
				zap.String("filename", fh.Filename),
				zap.Error(err))
			m.Remove(ctx, stored)
			return nil, err
		}
		m.metrics.RecordFileStored()
		stored = append(stored, m.PublicPath(key))
		log.Info("Uploaded file stored",
			zap.String("filename", fh.Filename),
			zap.String("key", key),
			zap.Int64("size", fh.Size))
	}
	return stored, nil
}

func (m *Manager) storeOne(ctx context.Context, dir string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect type of %s: %w", fh.Filename, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload %s: %w", fh.Filename, err)
	}

	key := path.Join(dir, uuid.NewString()+mtype.Extension())
	if err := m.storage.Put(ctx, key, f); err != nil {
		return "", err
	}
	return key, nil
}

// Replace stores files, hands their paths to persist and removes the
// previous paths once persist succeeds. If persist fails the new files are
// removed and the previous ones are left alone. Without new files persist
// receives previous.
func (m *Manager) Replace(ctx context.Context, dir string, previous model.ImagePaths, files []*multipart.FileHeader, persist func(model.ImagePaths) error) error {
	if len(files) == 0 {
		return persist(previous)
	}

	stored, err := m.Store(ctx, dir, files)
	if err != nil {
		return err
	}
	if err := persist(stored); err != nil {
		logger.Ctx(ctx).Warn("Discarding stored files after failed save",
			zap.Strings("paths", stored),
			zap.Error(err))
		m.Remove(ctx, stored)
		return err
	}
	m.Remove(ctx, previous)
	return nil
}

// Remove deletes the files behind paths. Failures are logged and skipped.
func (m *Manager) Remove(ctx context.Context, paths model.ImagePaths) {
	log := logger.Ctx(ctx)

	for _, p := range paths {
		key, ok := m.KeyFor(p)
		if !ok {
			m.metrics.RecordStorageWarning()
			log.Warn("Image path is outside the media store, skipping",
				zap.String("path", p))
			continue
		}

		err := m.storage.Delete(ctx, key)
		switch {
		case err == nil:
			m.metrics.RecordFileRemoved()
			log.Info("Stored file removed", zap.String("key", key))
		case errors.Is(err, ErrNotExist):
			m.metrics.RecordStorageWarning()
			log.Warn("Stored file already missing",
				zap.String("key", key))
		default:
			m.metrics.RecordStorageWarning()
			log.Error("Failed to remove stored file",
				zap.String("key", key),
				zap.Error(err))
		}
	}
}
