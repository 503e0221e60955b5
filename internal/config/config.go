// Package config provides configuration structures and validation for the
// settlement reporting services. It handles environment-based configuration
// for all major components: the HTTP gateway, the data stores, the outbound
// delivery channel, and the report layout constants the counterparty expects.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds the complete application configuration with settings for all
// components. Each field represents a major subsystem's configuration and is
// validated during application startup.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Kafka       KafkaConfig
	WorkerPool  WorkerPoolConfig
	Company     CompanyConfig
	Programs    ProgramsConfig
	Backup      BackupConfig
	Transfer    TransferConfig
	Encryption  EncryptionConfig
	Auth        AuthConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// IsProduction reports whether the service runs against the production
// counterparty endpoints. It selects strict host-key verification for the
// transfer client; report content is unaffected.
func (a ApplicationConfig) IsProduction() bool {
	return a.Env == "production"
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration for the run audit store
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// KafkaConfig contains Kafka configuration for run outcome events
type KafkaConfig struct {
	Brokers           string
	OutcomeTopic      string // Topic receiving one event per finished run
	NumPartitions     int
	ReplicationFactor int
	MaxWait           time.Duration
}

// WorkerPoolConfig contains worker pool configuration for the gateway's
// asynchronous run dispatcher
type WorkerPoolConfig struct {
	Size int
}

// CompanyConfig contains the identifiers the counterparty assigned to us.
// These values are embedded in every rendered file and must match the
// bank's parser configuration byte-for-byte.
type CompanyConfig struct {
	ID            string // Company identifier in header and detail records
	FileTypeCode  string // File type code in the header record
	LayoutVersion string // Layout version the serializer renders
}

// ProgramsConfig maps the two recognized program selectors to their
// bank-assigned program identifiers.
type ProgramsConfig struct {
	StandardID string // Program identifier for the "standard" selector
	SameDayID  string // Program identifier for the "sameday" selector
}

// BackupConfig contains object storage configuration for the audit copy
type BackupConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// TransferConfig contains the secure file transfer endpoint configuration
type TransferConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	HostKey        string // Base64-encoded host public key; required in production
	ConnectTimeout time.Duration
}

// EncryptionConfig contains the counterparty's public key used to encrypt
// rendered files before delivery
type EncryptionConfig struct {
	PublicKeyPath string
}

// Authorization modes for the gateway's mutating endpoints.
const (
	AuthModeAllowAll = "allow_all" // no authorization, development only
	AuthModeStatic   = "static"    // fixed credential table from AUTH_GRANTS
)

// AuthConfig selects how the gateway authorizes callers. Grants is a flat
// string of the form "credential:perm1 perm2,credential2:perm3" and is only
// consulted when Mode is AuthModeStatic.
type AuthConfig struct {
	Mode   string
	Grants string
}

// ParseGrants expands the Grants string into a credential to permissions
// table suitable for the gateway's static permission checker.
func (a AuthConfig) ParseGrants() (map[string][]string, error) {
	grants := make(map[string][]string)
	for _, entry := range strings.Split(a.Grants, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		credential, permissionList, found := strings.Cut(entry, ":")
		credential = strings.TrimSpace(credential)
		if !found || credential == "" {
			return nil, fmt.Errorf("malformed grant entry %q, expected credential:perm1 perm2", entry)
		}
		permissions := strings.Fields(permissionList)
		if len(permissions) == 0 {
			return nil, fmt.Errorf("grant entry %q names no permissions", entry)
		}
		grants[credential] = append(grants[credential], permissions...)
	}
	return grants, nil
}

// validate performs comprehensive validation of all configuration values,
// ensuring they meet minimum requirements and logical constraints
func (c *Config) validate() error {
	var validationErrors []string

	// Validate Server config
	if c.Server.Port <= 0 {
		validationErrors = append(validationErrors, "SERVER_PORT must be greater than 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_SHUTDOWN_TIMEOUT must be greater than 0")
	}
	if c.Server.ReadTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_READ_TIMEOUT must be greater than 0")
	}
	if c.Server.WriteTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_WRITE_TIMEOUT must be greater than 0")
	}
	if c.Server.IdleTimeout <= 0 {
		validationErrors = append(validationErrors, "SERVER_IDLE_TIMEOUT must be greater than 0")
	}

	// Validate PostgreSQL config
	if c.Postgres.URL == "" {
		validationErrors = append(validationErrors, "POSTGRES_URL is required")
	}
	if c.Postgres.MaxConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONNS must be greater than 0")
	}
	if c.Postgres.MinConns <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MIN_CONNS must be greater than 0")
	}
	if c.Postgres.ConnMaxLifetime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_LIFETIME must be greater than 0")
	}
	if c.Postgres.ConnMaxIdleTime <= 0 {
		validationErrors = append(validationErrors, "POSTGRES_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate MongoDB config
	if c.MongoDB.URI == "" {
		validationErrors = append(validationErrors, "MONGO_URI is required")
	}
	if c.MongoDB.Database == "" {
		validationErrors = append(validationErrors, "MONGO_DATABASE is required")
	}
	if c.MongoDB.Timeout <= 0 {
		validationErrors = append(validationErrors, "MONGO_TIMEOUT must be greater than 0")
	}
	if c.MongoDB.MaxPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MinPoolSize <= 0 {
		validationErrors = append(validationErrors, "MONGO_MIN_POOL_SIZE must be greater than 0")
	}
	if c.MongoDB.MaxConnIdleTime <= 0 {
		validationErrors = append(validationErrors, "MONGO_MAX_CONN_IDLE_TIME must be greater than 0")
	}

	// Validate Kafka config
	if len(c.Kafka.Brokers) == 0 {
		validationErrors = append(validationErrors, "KAFKA_BROKERS is required")
	}
	if c.Kafka.OutcomeTopic == "" {
		validationErrors = append(validationErrors, "KAFKA_OUTCOME_TOPIC is required")
	}
	if c.Kafka.MaxWait <= 0 {
		validationErrors = append(validationErrors, "KAFKA_MAX_WAIT must be greater than 0")
	}

	// Validate WorkerPool config
	if c.WorkerPool.Size <= 0 {
		validationErrors = append(validationErrors, "WORKER_POOL_SIZE must be greater than 0")
	}

	// Validate Company config
	if c.Company.ID == "" {
		validationErrors = append(validationErrors, "COMPANY_ID is required")
	}
	if c.Company.FileTypeCode == "" {
		validationErrors = append(validationErrors, "COMPANY_FILE_TYPE_CODE is required")
	}
	if c.Company.LayoutVersion == "" {
		validationErrors = append(validationErrors, "COMPANY_LAYOUT_VERSION is required")
	}

	// Validate Programs config
	if c.Programs.StandardID == "" {
		validationErrors = append(validationErrors, "PROGRAM_STANDARD_ID is required")
	}
	if c.Programs.SameDayID == "" {
		validationErrors = append(validationErrors, "PROGRAM_SAMEDAY_ID is required")
	}

	// Validate Backup config
	if c.Backup.Endpoint == "" {
		validationErrors = append(validationErrors, "BACKUP_ENDPOINT is required")
	}
	if c.Backup.Bucket == "" {
		validationErrors = append(validationErrors, "BACKUP_BUCKET is required")
	}

	// Validate Transfer config
	if c.Transfer.Host == "" {
		validationErrors = append(validationErrors, "TRANSFER_HOST is required")
	}
	if c.Transfer.Port <= 0 {
		validationErrors = append(validationErrors, "TRANSFER_PORT must be greater than 0")
	}
	if c.Transfer.User == "" {
		validationErrors = append(validationErrors, "TRANSFER_USER is required")
	}
	if c.Transfer.ConnectTimeout <= 0 {
		validationErrors = append(validationErrors, "TRANSFER_CONNECT_TIMEOUT must be greater than 0")
	}
	if c.Application.IsProduction() && c.Transfer.HostKey == "" {
		validationErrors = append(validationErrors, "TRANSFER_HOST_KEY is required in production")
	}

	// Validate Encryption config
	if c.Encryption.PublicKeyPath == "" {
		validationErrors = append(validationErrors, "ENCRYPTION_PUBLIC_KEY_PATH is required")
	}

	// Validate Auth config
	switch c.Auth.Mode {
	case AuthModeAllowAll:
		if c.Application.IsProduction() {
			validationErrors = append(validationErrors, "AUTH_MODE must be 'static' in production")
		}
	case AuthModeStatic:
		grants, err := c.Auth.ParseGrants()
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("AUTH_GRANTS is invalid: %v", err))
		} else if len(grants) == 0 {
			validationErrors = append(validationErrors, "AUTH_GRANTS is required when AUTH_MODE is 'static'")
		}
	default:
		validationErrors = append(validationErrors, "AUTH_MODE must be 'allow_all' or 'static'")
	}

	if len(validationErrors) > 0 {
		return errors.New(strings.Join(validationErrors, ", "))
	}

	return nil
}
