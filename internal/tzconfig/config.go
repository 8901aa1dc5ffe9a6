// Package tzconfig holds the compiler's recognized configuration keys.
// Loaded from a small JSON file and overridable by CLI flags.
package tzconfig

import (
	"encoding/json"
	"os"

	"github.com/musclesoft/tiazip/internal/tzerrors"
	"github.com/musclesoft/tiazip/internal/tzregw"
)

// ExportType selects which encoder backend runs. Only TIAZIP engages the
// compression core this repository implements; the rest are recognized
// names rejected with a ConfigError.
type ExportType string

const (
	ExportRaw      ExportType = "RAW"
	ExportBasic    ExportType = "BASIC"
	ExportBasicRLE ExportType = "BASIC_RLE"
	ExportTIAComp  ExportType = "TIACOMP"
	ExportFSeq     ExportType = "FSEQ"
	ExportTIAZip   ExportType = "TIAZIP"
)

// Config is the full set of recognized keys and their effects.
type Config struct {
	TiaExportType ExportType `json:"tiaExportType"`
	DebugOutput   bool       `json:"debugOutput"`

	Channel0 tzregw.ChannelAddressMap `json:"channel0"`
	Channel1 tzregw.ChannelAddressMap `json:"channel1"`

	// MaxIntervalDuration bounds ChannelStateInterval.Duration.
	MaxIntervalDuration uint8 `json:"maxIntervalDuration"`

	// MinBackrefLength is the suffix-tree span compressor's commit
	// threshold, fixed at 3. Exposed here only so callers can see the
	// tunable, not to change it.
	MinBackrefLength int `json:"-"`

	// HuffmanLeafLimit caps each per-field tree (default 128).
	HuffmanLeafLimit int `json:"huffmanLeafLimit"`

	// JumpTableSize bounds the direct-addressable jump lookup table
	// (default up to 32).
	JumpTableSize int `json:"jumpTableSize"`

	// BlockSizeBits sizes each channel's bitstream buffer (default 4096*8
	// bits). One buffer holds that channel's jump table header, data stream
	// and span stream together; the streams are not sized separately.
	BlockSizeBits int `json:"blockSizeBits"`
}

// Default returns the compiler's built-in default configuration.
func Default() Config {
	return Config{
		TiaExportType:       ExportTIAZip,
		DebugOutput:         false,
		Channel0:            tzregw.Channel0AddressMap,
		Channel1:            tzregw.Channel1AddressMap,
		MaxIntervalDuration: 255,
		MinBackrefLength:    3,
		HuffmanLeafLimit:    128,
		JumpTableSize:       32,
		BlockSizeBits:       4096 * 8,
	}
}

// Load reads a JSON config file over the defaults. A missing path is not
// an error — callers get Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, &tzerrors.ConfigError{Reason: "reading config: " + err.Error()}
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, &tzerrors.ConfigError{Reason: "parsing config: " + err.Error()}
	}
	cfg.MinBackrefLength = 3
	return cfg, nil
}

// Validate checks the recognized keys for consistency, rejecting an
// unrecognized export type or a degenerate channel address map.
func (c Config) Validate() error {
	switch c.TiaExportType {
	case ExportRaw, ExportBasic, ExportBasicRLE, ExportTIAComp, ExportFSeq, ExportTIAZip:
	default:
		return &tzerrors.ConfigError{Reason: "unrecognized tiaExportType: " + string(c.TiaExportType)}
	}
	if c.Channel0 == c.Channel1 {
		return &tzerrors.ConfigError{Reason: "channel 0 and channel 1 address maps must differ"}
	}
	return nil
}
