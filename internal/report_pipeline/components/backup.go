package components

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/settlement-reporting/internal/report_pipeline/service"
)

// BackupObjectPrefix is the archive path under which rendered reports are
// stored before encryption.
const BackupObjectPrefix = "Settlement/TransactionalDataLayout/Backup/"

// ObjectStore is the slice of the object storage client the sink needs.
type ObjectStore interface {
	Put(ctx context.Context, objectName string, payload []byte) error
}

// BackupSinkImpl archives rendered report bytes to object storage.
type BackupSinkImpl struct {
	store  ObjectStore
	logger *slog.Logger
}

// NewBackupSink creates a sink backed by the given object store.
func NewBackupSink(store ObjectStore, logger *slog.Logger) service.BackupSink {
	return &BackupSinkImpl{store: store, logger: logger}
}

// Store writes the payload under the fixed backup prefix. Path separators in
// the file name are stripped so the object lands directly under the prefix.
func (b *BackupSinkImpl) Store(ctx context.Context, fileName string, payload []byte) error {
	name := strings.NewReplacer("/", "", "\\", "").Replace(fileName)
	objectName := BackupObjectPrefix + name

	if err := b.store.Put(ctx, objectName, payload); err != nil {
		return fmt.Errorf("failed to archive report %s: %w", objectName, err)
	}

	b.logger.Info("Archived report backup", "object", objectName, "bytes", len(payload))
	return nil
}
