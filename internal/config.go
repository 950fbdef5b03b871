package internal

import (
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/apiops/internal/artifact"
)

// Storage backends.
const (
	StorageBackendFS = "fs"
	StorageBackendS3 = "s3"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	Service    ServiceConfig     `yaml:"service"`
	Output     OutputConfig      `yaml:"output"`
	Extraction ExtractionConfig  `yaml:"extraction"`
	Provider   ProviderConfig    `yaml:"provider"`
	Storage    StorageConfig     `yaml:"storage"`
	Index      IndexConfig       `yaml:"index"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Service.Validate(); err != nil {
		return fmt.Errorf("service: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.Extraction.Validate(); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Provider.Validate(); err != nil {
		return fmt.Errorf("provider: %w", err)
	}
	return c.Storage.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// ServiceConfig names the API management service being extracted.
type ServiceConfig struct {
	Name string `yaml:"name"`
}

// Validate validates the service configuration.
func (c *ServiceConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required),
	)
}

// OutputConfig holds the root directory of the artifact tree.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ExtractionConfig tunes the extraction pipeline.
type ExtractionConfig struct {
	Concurrency   int                 `yaml:"concurrency"`
	StrictDecode  bool                `yaml:"strict_decode"`
	Specification SpecificationConfig `yaml:"specification"`
}

// Validate validates the extraction configuration.
func (c *ExtractionConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(256)),
	); err != nil {
		return err
	}
	return c.Specification.Validate()
}

// SpecificationConfig is the OpenAPI format used for APIs that declare no format.
type SpecificationConfig struct {
	Format  string `yaml:"format"`
	Version string `yaml:"version"`
}

// Validate validates the specification configuration.
func (c *SpecificationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.Required, validation.In("json", "yaml", "JSON", "YAML")),
		validation.Field(&c.Version, validation.Required, validation.In("v2", "v3", "V2", "V3")),
	); err != nil {
		return fmt.Errorf("specification: %w", err)
	}
	return nil
}

// DefaultFormat returns the configured format as a specification format.
func (c *SpecificationConfig) DefaultFormat() (artifact.SpecificationFormat, error) {
	return artifact.ParseOpenAPIFormat(c.Version, c.Format)
}

// ProviderConfig locates the resources to extract.
type ProviderConfig struct {
	SnapshotPath string `yaml:"snapshot_path"`
}

// Validate validates the provider configuration.
func (c *ProviderConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SnapshotPath, validation.Required),
	)
}

// StorageConfig selects where the artifact tree is written.
type StorageConfig struct {
	Backend string   `yaml:"backend"`
	S3      S3Config `yaml:"s3"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	// Normalise empty backend to "fs".
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = StorageBackendFS
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.In(StorageBackendFS, StorageBackendS3)),
	); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if c.Backend == StorageBackendS3 {
		if err := c.S3.Validate(); err != nil {
			return fmt.Errorf("storage: s3: %w", err)
		}
	}
	return nil
}

// S3Config holds S3-compatible object store settings.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Validate validates the S3 configuration.
func (c *S3Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required),
		validation.Field(&c.AccessKey, validation.Required),
		validation.Field(&c.SecretKey, validation.Required),
		validation.Field(&c.Bucket, validation.Required, validation.Length(3, 63)),
	)
}

// IndexConfig holds the SQLite artifact index location. An empty path
// disables the index.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether an index is configured.
func (c *IndexConfig) Enabled() bool {
	return c.Path != ""
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Service: ServiceConfig{
			Name: "apim",
		},
		Output: OutputConfig{
			Path: "./artifacts",
		},
		Extraction: ExtractionConfig{
			Concurrency: 8,
			Specification: SpecificationConfig{
				Format:  "yaml",
				Version: "v3",
			},
		},
		Provider: ProviderConfig{
			SnapshotPath: "./snapshot.yaml",
		},
		Storage: StorageConfig{
			Backend: StorageBackendFS,
			S3: S3Config{
				Region: "us-east-1",
				UseSSL: true,
			},
		},
		Index: IndexConfig{
			Path: "./apiops.db",
		},
	}
}
