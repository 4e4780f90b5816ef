package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"time"

	"github.com/tastien/teamup/internal/metrics"
	"github.com/tastien/teamup/internal/model"
)

const (
	defaultAPIBase  = "https://api.github.com"
	defaultFileName = "teamup-rooms.json"
	defaultTimeout  = 10 * time.Second
)

// gistURLPattern matches a full gist URL so users can paste either the bare
// id or the browser URL into configuration.
var gistURLPattern = regexp.MustCompile(`(?i)(?:https?://)?(?:gist\.)?github\.com/[^/]+/([a-f0-9]+)`)

// ExtractGistID returns the bare gist id from an id or a full gist URL.
func ExtractGistID(idOrURL string) string {
	if m := gistURLPattern.FindStringSubmatch(idOrURL); m != nil {
		return m[1]
	}
	return idOrURL
}

// GistStore implements Store on top of the GitHub Gist API. The rooms
// document is one file inside the gist; the gist's updated_at timestamp
// serves as the revision token.
type GistStore struct {
	gistID   string
	token    string
	apiBase  string
	fileName string
	timeout  time.Duration
	client   *http.Client
	metrics  *metrics.Metrics
}

// GistConfig holds configuration for the gist-backed store.
type GistConfig struct {
	GistID   string // bare id or full gist URL
	Token    string // optional; without it the store is read-only
	APIBase  string // optional, defaults to the public GitHub API
	FileName string // optional document file name inside the gist
	Timeout  time.Duration
	Metrics  *metrics.Metrics // optional
}

// NewGistStore creates a gist-backed document store.
func NewGistStore(cfg GistConfig) *GistStore {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	fileName := cfg.FileName
	if fileName == "" {
		fileName = defaultFileName
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GistStore{
		gistID:   ExtractGistID(cfg.GistID),
		token:    cfg.Token,
		apiBase:  apiBase,
		fileName: fileName,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
		metrics:  cfg.Metrics,
	}
}

// CanWrite reports whether the store holds a credential. Public gists can
// be read without one, but every write requires it.
func (s *GistStore) CanWrite() bool {
	return s.token != ""
}

// gistFile is one file entry in the gist API payload.
type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// gistPayload is the subset of the gist API response the store reads.
type gistPayload struct {
	ID        string              `json:"id"`
	UpdatedAt string              `json:"updated_at"`
	Files     map[string]gistFile `json:"files"`
}

// Load fetches the gist and decodes the rooms document. A gist without the
// document file yet yields an empty document, not an error.
func (s *GistStore) Load(ctx context.Context) (*Snapshot, error) {
	payload, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Revision: Revision(payload.UpdatedAt)}

	file, ok := payload.Files[s.fileName]
	if !ok || file.Content == "" {
		return snap, nil
	}

	if err := json.Unmarshal([]byte(file.Content), &snap.Data); err != nil {
		s.metrics.IncParseFailure()
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, s.fileName, err)
	}
	return snap, nil
}

// Save writes the whole document back to the gist. The remote revision is
// re-read immediately before the PATCH; if it no longer matches basedOn the
// write is abandoned with ErrConflict. Once the PATCH starts it is detached
// from the caller's cancellation so a mutation is never left half-applied.
func (s *GistStore) Save(ctx context.Context, doc model.RoomsDocument, basedOn Revision) error {
	if !s.CanWrite() {
		return ErrReadOnly
	}

	if basedOn != "" {
		current, err := s.fetch(ctx)
		if err != nil {
			return err
		}
		if Revision(current.UpdatedAt) != basedOn {
			s.metrics.IncWriteConflict()
			return fmt.Errorf("%w: remote revision %s, local revision %s",
				ErrConflict, current.UpdatedAt, basedOn)
		}
	}

	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding document: %v", ErrParse, err)
	}

	body, err := json.Marshal(map[string]any{
		"files": map[string]any{
			s.fileName: map[string]string{"content": string(content)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: encoding request: %v", ErrParse, err)
	}

	// The write runs to completion even if the caller navigates away;
	// only the store's own timeout bounds it.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(wctx, http.MethodPatch,
		fmt.Sprintf("%s/gists/%s", s.apiBase, s.gistID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: gist %s", ErrNotFound, s.gistID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: write returned status %d", ErrFetch, resp.StatusCode)
	}

	s.metrics.IncWrite()
	slog.Debug("document saved",
		slog.String("gist_id", s.gistID),
		slog.Int("rooms", len(doc.Rooms)),
	)
	return nil
}

// Exists reports whether the configured gist can be reached.
func (s *GistStore) Exists(ctx context.Context) (bool, error) {
	_, err := s.fetch(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Create creates a new private gist seeded with an empty rooms document and
// returns its id. Used by first-run bootstrap.
func (s *GistStore) Create(ctx context.Context, description, version string) (string, error) {
	if !s.CanWrite() {
		return "", ErrReadOnly
	}

	content, err := json.MarshalIndent(model.RoomsDocument{
		Rooms:       []model.TeamRoom{},
		LastUpdated: time.Now().UTC(),
		Version:     version,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encoding document: %v", ErrParse, err)
	}

	body, err := json.Marshal(map[string]any{
		"description": description,
		"public":      false,
		"files": map[string]any{
			s.fileName: map[string]string{"content": string(content)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", ErrParse, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/gists", s.apiBase), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", classifyTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: create returned status %d", ErrFetch, resp.StatusCode)
	}

	var payload gistPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decoding create response: %v", ErrParse, err)
	}

	s.gistID = payload.ID
	return payload.ID, nil
}

// fetch retrieves and decodes the gist API envelope.
func (s *GistStore) fetch(ctx context.Context) (*gistPayload, error) {
	s.metrics.IncFetch()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/gists/%s", s.apiBase, s.gistID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	s.setHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.IncFetchFailure()
		return nil, classifyTransportErr(err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: gist %s", ErrNotFound, s.gistID)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		s.metrics.IncFetchFailure()
		return nil, fmt.Errorf("%w: auth rejected with status %d", ErrFetch, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		s.metrics.IncFetchFailure()
		return nil, fmt.Errorf("%w: fetch returned status %d", ErrFetch, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		s.metrics.IncFetchFailure()
		return nil, classifyTransportErr(err)
	}

	var payload gistPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.metrics.IncParseFailure()
		return nil, fmt.Errorf("%w: gist envelope: %v", ErrParse, err)
	}
	return &payload, nil
}

func (s *GistStore) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "token "+s.token)
	}
}

// classifyTransportErr maps a transport failure onto the error taxonomy.
func classifyTransportErr(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrFetch, err)
}
