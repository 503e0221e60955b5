package components

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/settlement-reporting/internal/report_pipeline/service"
)

// Uploader is the slice of the transfer client the transmitter needs.
type Uploader interface {
	Upload(ctx context.Context, remotePath string, payload []byte) error
	User() string
}

// TransmitterImpl delivers encrypted reports to the counterparty's drop
// directory.
type TransmitterImpl struct {
	uploader Uploader
	logger   *slog.Logger
}

// NewTransmitter creates a transmitter backed by the given uploader.
func NewTransmitter(uploader Uploader, logger *slog.Logger) service.Transmitter {
	return &TransmitterImpl{uploader: uploader, logger: logger}
}

// Transmit uploads the payload as <fileName>.pgp under the transfer user's
// incoming directory. The result is structured rather than raised so the
// orchestrator can fold it into the run outcome.
func (t *TransmitterImpl) Transmit(ctx context.Context, fileName string, payload []byte) service.TransferResult {
	remotePath := fmt.Sprintf("/users/%s/incoming/%s.pgp", t.uploader.User(), fileName)

	if err := t.uploader.Upload(ctx, remotePath, payload); err != nil {
		t.logger.Error("Report delivery failed", "remote_path", remotePath, "error", err)
		return service.TransferResult{Success: false, Message: err.Error()}
	}

	t.logger.Info("Report delivered", "remote_path", remotePath, "bytes", len(payload))
	return service.TransferResult{Success: true, Message: fmt.Sprintf("delivered to %s", remotePath)}
}
