package compressing

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a compressing format. It is usually loaded from YAML:
//
//	formatName: Lucene41StoredFields
//	segmentSuffix: ""
//	mode: fast
//	chunkSize: 16384
//	maxDocsPerChunk: 128
//	blockSize: 64
type Config struct {
	FormatName      string `yaml:"formatName"`
	SegmentSuffix   string `yaml:"segmentSuffix"`
	Mode            string `yaml:"mode"`
	ChunkSize       int    `yaml:"chunkSize"`
	MaxDocsPerChunk int    `yaml:"maxDocsPerChunk"`
	BlockSize       int    `yaml:"blockSize"`
}

// Reads and validates the YAML config at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %v", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %v", path)
	}
	return cfg, nil
}

// Parses and validates a YAML config. Omitted optional keys take
// their defaults.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{
		Mode:            COMPRESSION_MODE_FAST.String(),
		MaxDocsPerChunk: MAX_DOCUMENTS_PER_CHUNK,
		BlockSize:       PACKED_BLOCK_SIZE,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.FormatName == "" {
		return errors.New("formatName is required")
	}
	if _, err := ParseCompressionMode(c.Mode); err != nil {
		return err
	}
	_, err := newFormatOptions(c.ChunkSize, c.options(nil))
	return err
}

func (c *Config) options(m *Metrics) []FormatOption {
	return []FormatOption{
		WithMaxDocsPerChunk(c.MaxDocsPerChunk),
		WithBlockSize(c.BlockSize),
		WithMetrics(m),
	}
}

func (c *Config) mode() (CompressionMode, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return ParseCompressionMode(c.Mode)
}

// Builds the stored fields format described by c. m may be nil.
func NewStoredFieldsFormatFromConfig(c *Config, m *Metrics) (*CompressingStoredFieldsFormat, error) {
	mode, err := c.mode()
	if err != nil {
		return nil, err
	}
	return NewCompressingStoredFieldsFormat(c.FormatName, c.SegmentSuffix, mode, c.ChunkSize, c.options(m)...)
}

// Builds the term vectors format described by c. m may be nil.
func NewTermVectorsFormatFromConfig(c *Config, m *Metrics) (*CompressingTermVectorsFormat, error) {
	mode, err := c.mode()
	if err != nil {
		return nil, err
	}
	return NewCompressingTermVectorsFormat(c.FormatName, c.SegmentSuffix, mode, c.ChunkSize, c.options(m)...)
}
