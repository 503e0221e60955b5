// Package transfer implements the secure file transfer channel to the
// counterparty. A fresh connection is established per upload; the pipeline
// runs at most a handful of deliveries per day, so connection reuse is not
// worth the session-management complexity.
package transfer

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/pkg/sftp"
	"github.com/settlement-reporting/internal/config"
	"golang.org/x/crypto/ssh"
)

// SFTPClient uploads payloads to the configured SFTP endpoint.
type SFTPClient struct {
	cfg       *config.TransferConfig
	hostKeyCb ssh.HostKeyCallback
	logger    *slog.Logger
}

// NewSFTPClient builds the client. In production the counterparty's host key
// is pinned; outside production host key checking is disabled so the pipeline
// can run against disposable test endpoints.
func NewSFTPClient(logger *slog.Logger, cfg *config.TransferConfig, production bool) (*SFTPClient, error) {
	hostKeyCb := ssh.InsecureIgnoreHostKey() //nolint:gosec // non-production only
	if production {
		raw, err := base64.StdEncoding.DecodeString(cfg.HostKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode transfer host key: %w", err)
		}
		key, err := ssh.ParsePublicKey(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transfer host key: %w", err)
		}
		hostKeyCb = ssh.FixedHostKey(key)
	}

	return &SFTPClient{
		cfg:       cfg,
		hostKeyCb: hostKeyCb,
		logger:    logger,
	}, nil
}

// User returns the configured transfer user, used to derive remote paths.
func (c *SFTPClient) User() string {
	return c.cfg.User
}

// Upload connects to the endpoint and writes the payload to remotePath.
func (c *SFTPClient) Upload(ctx context.Context, remotePath string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sshConfig := &ssh.ClientConfig{
		User:            c.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(c.cfg.Password)},
		HostKeyCallback: c.hostKeyCb,
		Timeout:         c.cfg.ConnectTimeout,
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
	conn, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to transfer endpoint %s: %w", addr, err)
	}
	defer conn.Close()

	client, err := sftp.NewClient(conn)
	if err != nil {
		return fmt.Errorf("failed to open sftp session: %w", err)
	}
	defer client.Close()

	f, err := client.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", remotePath, err)
	}

	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write remote file %s: %w", remotePath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close remote file %s: %w", remotePath, err)
	}

	c.logger.Info("Uploaded file", "remote_path", remotePath, "bytes", len(payload))
	return nil
}
