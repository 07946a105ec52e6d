package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"chat-relay/internal/utils/mediaid"
)

var (
	// ErrQueryRequired is returned when a query has no text and no file reference.
	ErrQueryRequired = errors.New("query is required")
	// ErrFileTooLarge is returned when an upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
	// ErrFileNotFound is returned for unknown or malformed file keys.
	ErrFileNotFound = errors.New("file not found")
)

const octetStream = "application/octet-stream"

// AgentClient talks to the external agent.
type AgentClient interface {
	Ask(ctx context.Context, req AgentRequest) (json.RawMessage, error)
	ProcessFile(ctx context.Context, file FileReference) (json.RawMessage, error)
}

// Storage persists uploaded files.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Health(ctx context.Context) error
}

// Options configures how stored files are addressed.
type Options struct {
	// URLPrefix is the path under which the gateway serves stored files.
	URLPrefix string
	// PublicBaseURL, when set, makes file URLs absolute.
	PublicBaseURL string
	// MaxBytes limits upload size; zero means unlimited.
	MaxBytes int64
}

// Service is the gateway: it relays queries to the agent and stores uploads.
type Service interface {
	Query(ctx context.Context, req QueryRequest) (json.RawMessage, error)
	Upload(ctx context.Context, req UploadRequest) (*StoredFile, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Ready(ctx context.Context) error
}

type service struct {
	agent   AgentClient
	storage Storage
	opts    Options
	log     zerolog.Logger
}

// NewService creates a new relay service.
func NewService(agent AgentClient, storage Storage, opts Options, log zerolog.Logger) Service {
	opts.URLPrefix = "/" + strings.Trim(opts.URLPrefix, "/")
	opts.PublicBaseURL = strings.TrimRight(opts.PublicBaseURL, "/")
	return &service{
		agent:   agent,
		storage: storage,
		opts:    opts,
		log:     log.With().Str("component", "relay-service").Logger(),
	}
}

// Query forwards the query to the agent and returns its body unchanged.
// A file reference without text is sent to the agent's file processor.
func (s *service) Query(ctx context.Context, req QueryRequest) (json.RawMessage, error) {
	query := strings.TrimSpace(req.Query)

	if query == "" {
		if req.File == nil || strings.TrimSpace(req.File.URL) == "" {
			return nil, ErrQueryRequired
		}
		s.log.Debug().Str("file", req.File.URL).Msg("forwarding file to agent")
		return s.agent.ProcessFile(ctx, *req.File)
	}

	s.log.Debug().Int("query_length", len(query)).Bool("has_file", req.File != nil).Msg("forwarding query to agent")
	return s.agent.Ask(ctx, AgentRequest{Query: query, File: req.File})
}

// Upload stores the file under a fresh key. The declared content type wins
// unless it is missing or generic, in which case the type is sniffed.
func (s *service) Upload(ctx context.Context, req UploadRequest) (*StoredFile, error) {
	reader := req.Body
	if s.opts.MaxBytes > 0 {
		reader = io.LimitReader(req.Body, s.opts.MaxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if s.opts.MaxBytes > 0 && int64(len(data)) > s.opts.MaxBytes {
		return nil, ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	mediaType := normalizeMediaType(req.ContentType)
	if mediaType == "" || mediaType == octetStream {
		mediaType = detected.String()
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if ext == "" {
		ext = detected.Extension()
	}

	key := mediaid.Key(ext)
	size := int64(len(data))
	if err := s.storage.Upload(ctx, key, bytes.NewReader(data), size, mediaType); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("failed to store upload")
		return nil, fmt.Errorf("store upload: %w", err)
	}

	name := filepath.Base(strings.TrimSpace(req.Filename))
	if name == "." || name == "/" || name == "" {
		name = key
	}

	file := &StoredFile{
		Key:       key,
		URL:       s.fileURL(key),
		Name:      name,
		MediaType: mediaType,
		Size:      size,
	}

	s.log.Info().
		Str("key", key).
		Str("name", name).
		Str("media_type", mediaType).
		Int64("bytes", size).
		Msg("file uploaded")

	return file, nil
}

// Open returns a stored file and its content type.
func (s *service) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !mediaid.IsValidKey(key) {
		return nil, "", ErrFileNotFound
	}
	return s.storage.Download(ctx, key)
}

// Ready reports whether uploads can be stored.
func (s *service) Ready(ctx context.Context) error {
	return s.storage.Health(ctx)
}

func (s *service) fileURL(key string) string {
	return s.opts.PublicBaseURL + s.opts.URLPrefix + "/" + key
}

func normalizeMediaType(raw string) string {
	mediaType, _, _ := strings.Cut(raw, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}
