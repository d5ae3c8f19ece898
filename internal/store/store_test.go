// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/fraudscope/internal/evaluate"
)

type testModel struct {
	Weights []float64
	Columns []string
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name:  "creates directory if not exists",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "new_dir") },
		},
		{
			name:  "uses existing directory",
			setup: func(t *testing.T) string { return t.TempDir() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			st, err := NewStore(dir)
			if err != nil {
				t.Fatalf("NewStore() error = %v", err)
			}
			if st.Dir() != dir {
				t.Errorf("Dir() = %q", st.Dir())
			}
		})
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	st, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	model := testModel{Weights: []float64{0.5, -1.25}, Columns: []string{"Amount", "MCC"}}
	meta, err := st.Save(ctx, "fraud", model, Metadata{
		RunID:     "run-1",
		TrainedAt: time.Now(),
		Scores:    map[string]evaluate.Scores{"test": {Accuracy: 0.9, Recall: 0.8}},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.Version != 1 || meta.Name != "fraud" || meta.Checksum == "" || meta.SizeBytes == 0 {
		t.Errorf("Save() metadata = %+v", meta)
	}

	var got testModel
	loaded, err := st.Load(ctx, "fraud", 0, &got)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, model) {
		t.Errorf("Load() = %+v, want %+v", got, model)
	}
	if loaded.RunID != "run-1" || loaded.Scores["test"].Recall != 0.8 {
		t.Errorf("metadata not preserved: %+v", loaded)
	}
}

func TestStore_VersionsIncreaseAndSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	st, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		meta, err := st.Save(ctx, "awards", testModel{Weights: []float64{float64(i)}}, Metadata{})
		if err != nil {
			t.Fatal(err)
		}
		if meta.Version != i {
			t.Errorf("save %d got version %d", i, meta.Version)
		}
	}

	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := reopened.LatestVersion("awards"); !ok || v != 3 {
		t.Errorf("LatestVersion() = %d, %v", v, ok)
	}

	var m testModel
	if _, err := reopened.Load(ctx, "awards", 2, &m); err != nil || m.Weights[0] != 2 {
		t.Errorf("Load(v2) = %+v, %v", m, err)
	}
	meta, err := reopened.Save(ctx, "awards", testModel{}, Metadata{})
	if err != nil || meta.Version != 4 {
		t.Errorf("Save after reopen version = %d, %v", meta.Version, err)
	}
}

func TestStore_NotFound(t *testing.T) {
	st, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var m testModel
	if _, err := st.Load(context.Background(), "fraud", 0, &m); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load(latest) expected ErrModelNotFound, got %v", err)
	}
	if _, err := st.Save(context.Background(), "fraud", testModel{}, Metadata{}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(context.Background(), "fraud", 9, &m); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Load(v9) expected ErrModelNotFound, got %v", err)
	}
	if err := st.Delete(context.Background(), "fraud", 9); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Delete(v9) expected ErrModelNotFound, got %v", err)
	}
}

func TestStore_ChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	st, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(context.Background(), "fraud", testModel{Weights: []float64{1}}, Metadata{}); err != nil {
		t.Fatal(err)
	}

	// overwrite v1 with a file whose checksum does not match its payload
	other, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.Save(context.Background(), "fraud", testModel{Weights: []float64{2}}, Metadata{}); err != nil {
		t.Fatal(err)
	}
	sf, err := other.readFile("fraud", 1)
	if err != nil {
		t.Fatal(err)
	}
	sf.Metadata.Checksum = "deadbeef"
	if _, err := st.Save(context.Background(), "tampered", testModel{}, Metadata{}); err != nil {
		t.Fatal(err)
	}
	tampered := filepath.Join(dir, "tampered_v1.gob.gz")
	if err := writeStoredFile(tampered, sf); err != nil {
		t.Fatal(err)
	}

	var m testModel
	if _, err := st.Load(context.Background(), "tampered", 1, &m); err == nil {
		t.Error("expected checksum mismatch")
	}
}

func TestStore_PruneAndList(t *testing.T) {
	dir := t.TempDir()
	st, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := st.Save(ctx, "fraud", testModel{}, Metadata{}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := st.Save(ctx, "awards", testModel{}, Metadata{}); err != nil {
		t.Fatal(err)
	}

	removed, err := st.Prune(ctx, "fraud", 2)
	if err != nil || removed != 2 {
		t.Fatalf("Prune() = %d, %v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "fraud_v1.gob.gz")); !os.IsNotExist(err) {
		t.Error("fraud_v1 should be pruned")
	}

	list, err := st.ListModels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range list {
		got = append(got, fmt.Sprintf("%s:%d", m.Name, m.Version))
	}
	if want := []string{"awards:1", "fraud:3", "fraud:4"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ListModels() = %v, want %v", got, want)
	}

	if v, _ := st.LatestVersion("fraud"); v != 4 {
		t.Errorf("LatestVersion after prune = %d", v)
	}
}

func TestParseModelFilename(t *testing.T) {
	tests := []struct {
		file    string
		name    string
		version int
		ok      bool
	}{
		{"fraud_v3.gob.gz", "fraud", 3, true},
		{"my_model_v12.gob.gz", "my_model", 12, true},
		{"fraud_v0.gob.gz", "", 0, false},
		{"fraud.gob.gz", "", 0, false},
		{"fraud_v1.gob", "", 0, false},
		{".tmp-fraud-123", "", 0, false},
	}
	for _, tt := range tests {
		name, version, ok := parseModelFilename(tt.file)
		if name != tt.name || version != tt.version || ok != tt.ok {
			t.Errorf("parseModelFilename(%q) = %q, %d, %v", tt.file, name, version, ok)
		}
	}
}

func TestValidName(t *testing.T) {
	for name, want := range map[string]bool{"fraud": true, "": false, "../x": false, "a.b": false} {
		if ValidName(name) != want {
			t.Errorf("ValidName(%q) = %v", name, !want)
		}
	}
	st, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := st.Save(context.Background(), "../escape", testModel{}, Metadata{}); err == nil {
		t.Error("expected invalid name error")
	}
}

func TestStore_RefreshSeesOtherWriters(t *testing.T) {
	dir := t.TempDir()
	reader, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	writer, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := writer.Save(ctx, "fraud", &testModel{Weights: []float64{1}}, Metadata{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := reader.LatestVersion("fraud"); ok {
		t.Fatal("reader should not see the new version before Refresh")
	}
	if err := reader.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if v, ok := reader.LatestVersion("fraud"); !ok || v != 1 {
		t.Errorf("LatestVersion() = %d, %v", v, ok)
	}
}
