// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/fraudscope/internal/evaluate"
)

const modelExt = ".gob.gz"

// ErrModelNotFound is returned when no stored version matches a request.
var ErrModelNotFound = errors.New("model not found")

// Metadata describes one stored model version.
type Metadata struct {
	// Name is the model name (e.g., "fraud", "awards").
	Name string `json:"name"`

	// Version is assigned by Save and increases per name.
	Version int `json:"version"`

	// RunID identifies the training run that produced the model.
	RunID string `json:"run_id"`

	TrainedAt time.Time `json:"trained_at"`
	SavedAt   time.Time `json:"saved_at"`

	// TrainingRows counts rows after resampling.
	TrainingRows int `json:"training_rows"`

	// Features are the encoded column names the classifier sees.
	Features []string `json:"features,omitempty"`

	// Scores holds evaluation results keyed by partition name.
	Scores map[string]evaluate.Scores `json:"scores,omitempty"`

	// Params records the hyperparameters used.
	Params map[string]string `json:"params,omitempty"`

	// Checksum is the SHA-256 checksum of the model data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`

	TrainingDurationMS int64 `json:"training_duration_ms"`
}

// storedFile is the on-disk format for model files.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// Store manages model persistence in one directory.
type Store struct {
	baseDir string
	mu      sync.RWMutex

	// versions tracks every version on disk per model name
	versions map[string][]int
}

// NewStore opens (creating if needed) a model directory.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for model storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &Store{
		baseDir:  baseDir,
		versions: make(map[string][]int),
	}
	if err := s.scanModels(); err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}
	return s, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string { return s.baseDir }

// Refresh rescans the directory so versions saved by another process
// become visible.
func (s *Store) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions = make(map[string][]int)
	return s.scanModels()
}

func (s *Store) scanModels() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name, version, ok := parseModelFilename(entry.Name())
		if !ok {
			continue
		}
		s.versions[name] = append(s.versions[name], version)
	}
	for name := range s.versions {
		sort.Ints(s.versions[name])
	}
	return nil
}

// parseModelFilename splits "fraud_v3.gob.gz" into ("fraud", 3).
func parseModelFilename(file string) (name string, version int, ok bool) {
	base, found := strings.CutSuffix(file, modelExt)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(base, "_v")
	if i <= 0 {
		return "", 0, false
	}
	version, err := strconv.Atoi(base[i+2:])
	if err != nil || version < 1 {
		return "", 0, false
	}
	return base[:i], version, true
}

// ValidName reports whether name can be used as a model name.
func ValidName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\.`) {
		return false
	}
	return true
}

// Save stores data as the next version of name and returns the completed
// metadata.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *Store) Save(ctx context.Context, name string, data any, meta Metadata) (Metadata, error) {
	if !ValidName(name) {
		return Metadata{}, fmt.Errorf("invalid model name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return Metadata{}, fmt.Errorf("encode model: %w", err)
	}
	rawData := buf.Bytes()
	hash := sha256.Sum256(rawData)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return Metadata{}, fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return Metadata{}, fmt.Errorf("finalize compression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	meta.Name = name
	meta.Version = s.latest(name) + 1
	meta.Checksum = hex.EncodeToString(hash[:])
	meta.SizeBytes = int64(compressed.Len())
	meta.SavedAt = time.Now()

	var out bytes.Buffer
	if err := gob.NewEncoder(&out).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		return Metadata{}, fmt.Errorf("encode model file: %w", err)
	}

	path := s.modelPath(name, meta.Version)
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-"+name+"-*")
	if err != nil {
		return Metadata{}, fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(out.Bytes()); err != nil {
		_ = tmp.Close()
		return Metadata{}, fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Metadata{}, fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return Metadata{}, fmt.Errorf("rename model file: %w", err)
	}

	s.versions[name] = append(s.versions[name], meta.Version)
	return meta, nil
}

// Load decodes a model into target. Version 0 loads the latest.
func (s *Store) Load(ctx context.Context, name string, version int, target any) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version == 0 {
		version = s.latest(name)
	}
	if version == 0 || !s.has(name, version) {
		return nil, fmt.Errorf("%w: %s version %d", ErrModelNotFound, name, version)
	}

	sf, err := s.readFile(name, version)
	if err != nil {
		return nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(target); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	return &sf.Metadata, nil
}

func (s *Store) readFile(name string, version int) (*storedFile, error) {
	f, err := os.Open(s.modelPath(name, version))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s version %d", ErrModelNotFound, name, version)
		}
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return &sf, nil
}

// LatestVersion returns the newest version of name.
func (s *Store) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.latest(name)
	return v, v > 0
}

// ListModels returns metadata for every stored version, ordered by name
// then version.
func (s *Store) ListModels(ctx context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.versions))
	for name := range s.versions {
		names = append(names, name)
	}
	sort.Strings(names)

	var models []Metadata
	for _, name := range names {
		for _, v := range s.versions[name] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sf, err := s.readFile(name, v)
			if err != nil {
				continue
			}
			models = append(models, sf.Metadata)
		}
	}
	return models, nil
}

// Delete removes a specific model version.
func (s *Store) Delete(_ context.Context, name string, version int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.has(name, version) {
		return fmt.Errorf("%w: %s version %d", ErrModelNotFound, name, version)
	}
	if err := os.Remove(s.modelPath(name, version)); err != nil {
		return fmt.Errorf("delete model: %w", err)
	}
	s.forget(name, version)
	return nil
}

// Prune keeps the newest keep versions of name and deletes the rest.
// It returns the number of versions removed.
func (s *Store) Prune(_ context.Context, name string, keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 1 {
		keep = 1
	}
	versions := append([]int(nil), s.versions[name]...)
	if len(versions) <= keep {
		return 0, nil
	}

	removed := 0
	for _, v := range versions[:len(versions)-keep] {
		if err := os.Remove(s.modelPath(name, v)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("prune %s version %d: %w", name, v, err)
		}
		s.forget(name, v)
		removed++
	}
	return removed, nil
}

func (s *Store) latest(name string) int {
	vs := s.versions[name]
	if len(vs) == 0 {
		return 0
	}
	return vs[len(vs)-1]
}

func (s *Store) has(name string, version int) bool {
	vs := s.versions[name]
	i := sort.SearchInts(vs, version)
	return i < len(vs) && vs[i] == version
}

func (s *Store) forget(name string, version int) {
	vs := s.versions[name]
	i := sort.SearchInts(vs, version)
	if i < len(vs) && vs[i] == version {
		s.versions[name] = append(vs[:i], vs[i+1:]...)
	}
	if len(s.versions[name]) == 0 {
		delete(s.versions, name)
	}
}

func (s *Store) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, name+"_v"+strconv.Itoa(version)+modelExt)
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(Metadata{})
	gob.Register(storedFile{})
}
