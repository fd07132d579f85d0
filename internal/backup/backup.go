// Package backup exports the stored decision data as a zstd-compressed JSON
// document and restores it after validating it against an embedded schema.
package backup

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/abrezinsky/tinydecisions/internal/errors"
	"github.com/abrezinsky/tinydecisions/internal/logger"
	"github.com/abrezinsky/tinydecisions/internal/repository"
	"github.com/abrezinsky/tinydecisions/internal/services"
)

const (
	Format  = "tinydecisions-backup"
	Version = 1

	// MaxDocumentSize bounds the decompressed size of an imported backup
	MaxDocumentSize = 32 << 20

	schemaURL = "backup.schema.json"
)

//go:embed backup.schema.json
var schemaJSON []byte

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Document is the exported file
type Document struct {
	Format     string                     `json:"format"`
	Version    int                        `json:"version"`
	ExportedAt int64                      `json:"exportedAt"`
	Data       map[string]json.RawMessage `json:"data"`
}

// ImportResult reports what a restore replaced
type ImportResult struct {
	Keys       []string `json:"keys"`
	ExportedAt int64    `json:"exportedAt"`
}

// Service exports and restores the key/value store
type Service struct {
	log         logger.Logger
	repo        repository.BackupRepository
	schema      *jsonschema.Schema
	now         func() time.Time
	broadcaster services.Broadcaster
}

// New compiles the backup schema and returns a Service
func New(log logger.Logger, repo repository.BackupRepository) (*Service, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("backup schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("backup schema: %w", err)
	}
	return &Service{log: log, repo: repo, schema: schema, now: time.Now}, nil
}

// SetBroadcaster sets the broadcaster told about completed restores
func (s *Service) SetBroadcaster(b services.Broadcaster) {
	s.broadcaster = b
}

// SetClock replaces the clock used for ExportedAt
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Export writes every stored document to w as zstd-compressed JSON
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	data, err := s.repo.Snapshot(ctx)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to read store")
	}
	doc := Document{
		Format:     Format,
		Version:    Version,
		ExportedAt: s.now().UnixMilli(),
		Data:       data,
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := json.NewEncoder(enc).Encode(doc); err != nil {
		enc.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("compress backup: %w", err)
	}

	s.log.Info("Backup exported", "keys", len(data))
	return nil
}

// Import replaces the store with the backup read from r. Both compressed and
// plain JSON documents are accepted. Nothing is written unless the whole
// document is valid.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	raw, err := readDocument(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "unreadable backup")
	}

	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "backup is not JSON")
	}
	if err := s.schema.Validate(generic); err != nil {
		return nil, errors.Wrap(err, errors.ErrValidation, "backup does not match schema")
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "backup is not JSON")
	}
	if doc.Data == nil {
		doc.Data = map[string]json.RawMessage{}
	}
	if err := s.repo.Restore(ctx, doc.Data); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to restore backup")
	}

	keys := make([]string, 0, len(doc.Data))
	for k := range doc.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	result := &ImportResult{Keys: keys, ExportedAt: doc.ExportedAt}

	s.log.Info("Backup restored", "keys", len(keys), "exported_at", doc.ExportedAt)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastMessage(services.MsgDataRestored, result)
	}
	return result, nil
}

// readDocument returns the JSON bytes of a backup, decompressing when the
// stream starts with the zstd magic number
func readDocument(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br, zstd.WithDecoderMaxMemory(MaxDocumentSize))
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		src = dec
	}

	raw, err := io.ReadAll(io.LimitReader(src, MaxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > MaxDocumentSize {
		return nil, fmt.Errorf("backup larger than %d bytes", MaxDocumentSize)
	}
	return raw, nil
}
