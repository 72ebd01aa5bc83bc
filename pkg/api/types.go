package api

import (
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// LineErrorResponse describes a line that failed to parse
type LineErrorResponse struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// ParseResponse is returned by the parse endpoint
type ParseResponse struct {
	Records []bodyfile.Record   `json:"records"`
	Errors  []LineErrorResponse `json:"errors,omitempty"`
}

// FormatResponse is returned by the format endpoint
type FormatResponse struct {
	Line string `json:"line"`
}

// StoredRecord is a record together with its catalog id
type StoredRecord struct {
	ID     string          `json:"id"`
	Line   string          `json:"line"`
	Record bodyfile.Record `json:"record"`
}

// ImportResponse is returned when records are added to the catalog
type ImportResponse struct {
	IDs     []string `json:"ids"`
	Skipped int      `json:"skipped"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port        int
	Bind        string
	APIKey      string // Required X-API-Key value; empty disables authentication
	SkipInvalid bool   // Default for skip_invalid on imports
	MaxLineSize int    // Longest accepted bodyfile line (0 = stream default)
	MaxBodySize int64  // Request body limit in bytes (0 = unlimited)
}

// IRecordStore defines the catalog operations used by the API
type IRecordStore interface {
	CreateBatch(records []bodyfile.Record) ([]ksuid.KSUID, error)
	Read(id ksuid.KSUID) (bodyfile.Record, error)
	Update(id ksuid.KSUID, record bodyfile.Record) error
	Delete(id ksuid.KSUID) error
	List(limit int, fn func(id ksuid.KSUID, record bodyfile.Record) error) error
	Count() (int, error)
}
