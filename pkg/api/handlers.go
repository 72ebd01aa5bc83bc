package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/bodyfile/pkg/bodyfile"
	"github.com/ssargent/bodyfile/pkg/storage"
	"github.com/ssargent/bodyfile/pkg/stream"
)

const defaultListLimit = 100

// Server holds the API server state
type Server struct {
	store   IRecordStore
	config  ServerConfig
	metrics *Metrics
	logger  *slog.Logger
	codec   *bodyfile.Codec
}

// NewServer creates a new API server
func NewServer(store IRecordStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
		logger:  logger,
		codec:   bodyfile.NewCodec(),
	}
}

// handleHealth godoc
//
//	@Summary		Health check
//	@Description	Get the health status of the API
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/health [get]
//	@Security		ApiKeyAuth
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleParse godoc
//
//	@Summary		Parse bodyfile lines
//	@Description	Parse a bodyfile body and return its records and per-line errors
//	@Tags			codec
//	@Accept			plain
//	@Produce		json
//	@Param			body	body		string	true	"Bodyfile text"
//	@Success		200		{object}	ParseResponse
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/parse [post]
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	reader := s.newReader(w, r, false)

	resp := ParseResponse{Records: []bodyfile.Record{}}
	for {
		record, err := reader.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			var lineErr *stream.LineError
			var parseErr bodyfile.ParseError
			if !errors.As(err, &lineErr) || !errors.As(err, &parseErr) {
				s.logger.Warn("failed to read request body", "error", err)
				sendError(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.metrics.RecordParse(parseErr)
			resp.Errors = append(resp.Errors, LineErrorResponse{Line: lineErr.Line, Error: parseErr.Error()})
			continue
		}
		s.metrics.RecordParse(nil)
		resp.Records = append(resp.Records, record)
	}

	sendSuccess(w, resp)
}

// handleFormat godoc
//
//	@Summary		Format a record
//	@Description	Render a JSON record as a bodyfile line
//	@Tags			codec
//	@Accept			json
//	@Produce		json
//	@Param			record	body		bodyfile.Record	true	"Record"
//	@Success		200		{object}	FormatResponse
//	@Failure		400		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/format [post]
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)

	var record bodyfile.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if err := record.Validate(); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	sendSuccess(w, FormatResponse{Line: s.codec.Encode(record)})
}

// handleCreateRecords godoc
//
//	@Summary		Import records
//	@Description	Parse a bodyfile body and store every record in the catalog
//	@Tags			records
//	@Accept			plain
//	@Produce		json
//	@Param			body			body		string	true	"Bodyfile text"
//	@Param			skip_invalid	query		bool	false	"Skip lines that fail to parse"
//	@Success		201				{object}	ImportResponse
//	@Failure		400				{object}	APIResponse
//	@Failure		500				{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/records [post]
func (s *Server) handleCreateRecords(w http.ResponseWriter, r *http.Request) {
	skipInvalid := s.config.SkipInvalid
	if v := r.URL.Query().Get("skip_invalid"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			sendError(w, "Invalid skip_invalid parameter", http.StatusBadRequest)
			return
		}
		skipInvalid = parsed
	}

	reader := s.newReader(w, r, skipInvalid)
	var records []bodyfile.Record
	for {
		record, err := reader.ReadNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr bodyfile.ParseError
			if errors.As(err, &parseErr) {
				s.metrics.RecordParse(parseErr)
			}
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.metrics.RecordParse(nil)
		records = append(records, record)
	}

	start := time.Now()
	ids, err := s.store.CreateBatch(records)
	s.metrics.RecordStoreOperation("create", err == nil, time.Since(start))
	if err != nil {
		s.logger.Error("failed to store records", "error", err)
		sendError(w, "Failed to store records", http.StatusInternalServerError)
		return
	}

	resp := ImportResponse{IDs: make([]string, len(ids)), Skipped: reader.Skipped()}
	for i, id := range ids {
		resp.IDs[i] = id.String()
	}

	s.logger.Info("imported records", "count", len(ids), "skipped", reader.Skipped())
	sendCreated(w, resp)
}

// handleGetRecord godoc
//
//	@Summary		Get a record
//	@Description	Retrieve a stored record by id
//	@Tags			records
//	@Produce		json
//	@Param			id	path		string	true	"Record id"
//	@Success		200	{object}	StoredRecord
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/records/{id} [get]
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	record, err := s.store.Read(id)
	s.metrics.RecordStoreOperation("get", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, err)
		return
	}

	sendSuccess(w, StoredRecord{ID: id.String(), Line: s.codec.Encode(record), Record: record})
}

// handleUpdateRecord godoc
//
//	@Summary		Replace a record
//	@Description	Replace a stored record with a JSON record
//	@Tags			records
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Record id"
//	@Param			record	body		bodyfile.Record	true	"Record"
//	@Success		200		{object}	StoredRecord
//	@Failure		400		{object}	APIResponse
//	@Failure		404		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/records/{id} [put]
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}

	s.limitBody(w, r)
	var record bodyfile.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}
	if err := record.Validate(); err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	err := s.store.Update(id, record)
	s.metrics.RecordStoreOperation("update", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, err)
		return
	}

	sendSuccess(w, StoredRecord{ID: id.String(), Line: s.codec.Encode(record), Record: record})
}

// handleDeleteRecord godoc
//
//	@Summary		Delete a record
//	@Description	Remove a stored record by id
//	@Tags			records
//	@Produce		json
//	@Param			id	path		string	true	"Record id"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	APIResponse
//	@Failure		404	{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/records/{id} [delete]
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.recordID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	err := s.store.Delete(id)
	s.metrics.RecordStoreOperation("delete", err == nil, time.Since(start))
	if err != nil {
		s.sendStoreError(w, err)
		return
	}

	sendSuccess(w, map[string]string{"id": id.String(), "status": "deleted"})
}

// handleListRecords godoc
//
//	@Summary		List records
//	@Description	List stored records in creation order
//	@Tags			records
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum number of records"	default(100)
//	@Success		200		{array}		StoredRecord
//	@Failure		400		{object}	APIResponse
//	@Failure		500		{object}	APIResponse
//	@Security		ApiKeyAuth
//	@Router			/records [get]
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			sendError(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	start := time.Now()
	records := []StoredRecord{}
	err := s.store.List(limit, func(id ksuid.KSUID, record bodyfile.Record) error {
		records = append(records, StoredRecord{ID: id.String(), Line: s.codec.Encode(record), Record: record})
		return nil
	})
	s.metrics.RecordStoreOperation("list", err == nil, time.Since(start))
	if err != nil {
		s.logger.Error("failed to list records", "error", err)
		sendError(w, "Failed to list records", http.StatusInternalServerError)
		return
	}

	sendSuccess(w, records)
}

func (s *Server) newReader(w http.ResponseWriter, r *http.Request, skipInvalid bool) *stream.Reader {
	s.limitBody(w, r)
	return stream.NewReaderFrom(r.Body, stream.ReaderConfig{
		SkipInvalid: skipInvalid,
		MaxLineSize: s.config.MaxLineSize,
		Logger:      s.logger,
	})
}

func (s *Server) limitBody(w http.ResponseWriter, r *http.Request) {
	if s.config.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxBodySize)
	}
}

func (s *Server) recordID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := storage.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) sendStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, "Record not found", http.StatusNotFound)
		return
	}
	s.logger.Error("record store failure", "error", err)
	sendError(w, "Internal server error", http.StatusInternalServerError)
}

// startMetricsUpdater periodically refreshes the stored record gauge
func (s *Server) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.updateStoreStats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.updateStoreStats()
		}
	}
}

func (s *Server) updateStoreStats() {
	count, err := s.store.Count()
	if err != nil {
		s.logger.Warn("failed to count records", "error", err)
		return
	}
	s.metrics.UpdateStoreStats(count)
}
