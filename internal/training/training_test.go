// Fraudscope - Transaction Fraud and Awards Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fraudscope

package training

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/fraudscope/internal/awards"
	"github.com/tomtom215/fraudscope/internal/dataset"
	"github.com/tomtom215/fraudscope/internal/omdb"
	"github.com/tomtom215/fraudscope/internal/resample"
	"github.com/tomtom215/fraudscope/internal/store"
)

var legitMerchants = []string{"Grocer", "Fuel", "Pharmacy", "Diner", "Books"}

// transactions builds n rows where every tenth row is fraud from a single
// merchant with a large amount and a Bad PIN error.
func transactions(t *testing.T, n int) *dataset.Table {
	t.Helper()
	var b strings.Builder
	b.WriteString("User,Card,Year,Month,Day,Time,Amount,Use Chip,Merchant Name,Merchant City,Merchant State,Zip,MCC,Errors?,Is Fraud?\n")
	for i := 0; i < n; i++ {
		if i%10 == 9 {
			fmt.Fprintf(&b, "0,1,2020,1,1,03:%02d,$%d.00,Online Transaction,Shady,ONLINE,,,5999,Bad PIN,Yes\n", i%60, 900+i)
			continue
		}
		m := legitMerchants[i%len(legitMerchants)]
		fmt.Fprintf(&b, "0,0,2020,1,1,12:%02d,$%d.50,Chip Transaction,%s,Austin,TX,78701.0,5411,,No\n", i%60, 5+i%90, m)
	}
	tbl, err := dataset.ReadCSV(strings.NewReader(b.String()), dataset.ReadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestSplit(t *testing.T) {
	t.Parallel()

	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{fmt.Sprint(i)}
	}
	tbl := dataset.MustTable([]string{"id"}, rows)

	p := Split(tbl, 0.6, 0.5, 0)
	if p.Train.Len() != 6 || p.Validation.Len() != 2 || p.Test.Len() != 2 {
		t.Fatalf("sizes = %d/%d/%d, want 6/2/2", p.Train.Len(), p.Validation.Len(), p.Test.Len())
	}

	seen := make(map[string]bool)
	for _, part := range []*dataset.Table{p.Train, p.Validation, p.Test} {
		for i := 0; i < part.Len(); i++ {
			id := part.Get(i, "id")
			if seen[id] {
				t.Errorf("row %s appears in two partitions", id)
			}
			seen[id] = true
		}
	}
	if len(seen) != 10 {
		t.Errorf("partitions cover %d rows, want 10", len(seen))
	}

	again := Split(tbl, 0.6, 0.5, 0)
	if !reflect.DeepEqual(p, again) {
		t.Error("same seed produced a different split")
	}

	odd := Split(dataset.MustTable([]string{"id"}, rows[:7]), 0.6, 0.5, 1)
	if odd.Train.Len() != 4 || odd.Validation.Len() != 1 || odd.Test.Len() != 2 {
		t.Errorf("7-row sizes = %d/%d/%d, want 4/1/2", odd.Train.Len(), odd.Validation.Len(), odd.Test.Len())
	}
}

func TestTrainerFraud(t *testing.T) {
	t.Parallel()

	for _, method := range []string{resample.MethodOversample, resample.MethodSMOTE, resample.MethodNone} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			opts := DefaultOptions()
			opts.Resample = method
			res, err := NewTrainer(opts).Train(context.Background(), transactions(t, 200))
			if err != nil {
				t.Fatalf("Train() error = %v", err)
			}

			r := res.Report
			if r.RunID == "" || r.Model != KindFraud {
				t.Errorf("report identity = %q/%q", r.RunID, r.Model)
			}
			if r.Rows[PartitionTrain] != 120 || r.Rows[PartitionValidation] != 40 || r.Rows[PartitionTest] != 40 {
				t.Errorf("rows = %v", r.Rows)
			}
			if method != resample.MethodNone && r.Resampled <= r.Rows[PartitionTrain] {
				t.Errorf("resampled rows = %d, want more than %d", r.Resampled, r.Rows[PartitionTrain])
			}
			for _, part := range []string{PartitionTrain, PartitionValidation, PartitionTest} {
				if acc := r.Scores[part].Accuracy; acc < 0.95 {
					t.Errorf("%s accuracy = %v", part, acc)
				}
			}
			if r.Scores[PartitionTrain].Recall != 1 {
				t.Errorf("train recall = %v", r.Scores[PartitionTrain].Recall)
			}
			if r.Scores[PartitionTest].Rows != 40 {
				t.Errorf("test partition was scored on %d rows, want its own 40", r.Scores[PartitionTest].Rows)
			}
			if len(r.Features) != 11 {
				t.Errorf("features = %v", r.Features)
			}
		})
	}
}

func TestTrainerIsDeterministic(t *testing.T) {
	t.Parallel()

	data := transactions(t, 100)
	a, err := NewTrainer(DefaultOptions()).Train(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewTrainer(DefaultOptions()).Train(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	pa, _ := a.Pipeline.PredictProba(context.Background(), data)
	pb, _ := b.Pipeline.PredictProba(context.Background(), data)
	if !reflect.DeepEqual(pa, pb) {
		t.Error("two runs with the same seed disagree")
	}
	if a.Report.RunID == b.Report.RunID {
		t.Error("run ids should be unique")
	}
}

func TestTrainerErrors(t *testing.T) {
	t.Parallel()

	empty := dataset.MustTable(transactions(t, 1).Columns(), nil)
	if _, err := NewTrainer(DefaultOptions()).Train(context.Background(), empty); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}

	opts := DefaultOptions()
	opts.Resample = "undersample"
	if _, err := NewTrainer(opts).Train(context.Background(), transactions(t, 20)); err == nil {
		t.Error("expected unknown resample method error")
	}
}

func TestPipelineStoreRoundTrip(t *testing.T) {
	t.Parallel()

	data := transactions(t, 100)
	res, err := NewTrainer(DefaultOptions()).Train(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}

	st, err := store.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	meta, err := st.Save(context.Background(), "fraud", res.Pipeline, res.Metadata())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if meta.RunID != res.Report.RunID {
		t.Errorf("metadata run id = %q", meta.RunID)
	}

	var loaded Pipeline
	if _, err := st.Load(context.Background(), "fraud", 0, &loaded); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want, _ := res.Pipeline.Predict(context.Background(), data)
	got, err := loaded.Predict(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Error("loaded pipeline predicts differently")
	}
}

// nominees builds six ceremonies of three nominees; the winner always has
// the highest rating. Ceremony 6 has no winner recorded.
func nominees() *dataset.Table {
	cols := []string{awards.ColCeremony, awards.ColYear, awards.ColCategory, awards.ColName, awards.ColWon,
		omdb.ColRating, omdb.ColVotes, omdb.ColBoxOffice}
	var rows [][]string
	for c := 1; c <= 6; c++ {
		for k := 0; k < 3; k++ {
			won := "0"
			rating := fmt.Sprintf("%d.%d", 5+k%2, c)
			if k == 2 && c != 6 {
				won = "1"
				rating = "9." + fmt.Sprint(c)
			}
			rows = append(rows, []string{
				fmt.Sprint(c), fmt.Sprint(1927 + c), "Best Picture", fmt.Sprintf("Film %d-%d", c, k), won,
				rating, fmt.Sprint(1000 * (k + 1)), fmt.Sprint(50000 * (k + 1)),
			})
		}
	}
	return dataset.MustTable(cols, rows)
}

func TestCeremonySplit(t *testing.T) {
	t.Parallel()

	train, validation, ceremonies, err := CeremonySplit(nominees(), 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ceremonies, []int{1, 2, 3, 4}) {
		t.Errorf("train ceremonies = %v", ceremonies)
	}
	if train.Len() != 12 || validation.Len() != 3 {
		t.Errorf("rows = %d/%d, want 12/3", train.Len(), validation.Len())
	}
	for i := 0; i < validation.Len(); i++ {
		if validation.Get(i, awards.ColCeremony) != "5" {
			t.Errorf("validation row from ceremony %s", validation.Get(i, awards.ColCeremony))
		}
	}

	_, _, one, err := CeremonySplit(nominees(), 0.1)
	if err != nil || len(one) != 1 {
		t.Errorf("small fraction should still train on one ceremony, got %v, %v", one, err)
	}
}

func TestCeremonySplitNoWinners(t *testing.T) {
	t.Parallel()

	tbl := dataset.MustTable([]string{awards.ColCeremony, awards.ColWon}, [][]string{{"1", "0"}, {"2", "0"}})
	if _, _, _, err := CeremonySplit(tbl, 0.8); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRollingTrainer(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Trees = 25
	res, err := NewRollingTrainer(opts).Train(context.Background(), nominees())
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	r := res.Report
	if r.Model != KindAwards || r.Rows[PartitionTrain] != 12 || r.Rows[PartitionValidation] != 3 {
		t.Errorf("report = %+v", r)
	}
	if _, ok := r.Scores[PartitionTest]; ok {
		t.Error("rolling trainer has no test partition")
	}
	if r.Scores[PartitionTrain].Accuracy != 1 {
		t.Errorf("train accuracy = %v", r.Scores[PartitionTrain].Accuracy)
	}
	if got := r.Features; len(got) != 4 || got[3] != "Category=Best Picture" {
		t.Errorf("features = %v", got)
	}

	proba, err := res.Pipeline.PredictProba(context.Background(), nominees())
	if err != nil {
		t.Fatal(err)
	}
	if len(proba) != 18 {
		t.Errorf("proba rows = %d", len(proba))
	}
}

func TestReportJSON(t *testing.T) {
	t.Parallel()

	res, err := NewRollingTrainer(DefaultOptions()).Train(context.Background(), nominees())
	if err != nil {
		t.Fatal(err)
	}
	b, err := res.Report.JSON()
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"run_id"`, `"scores"`, `"validation"`, `"recall"`} {
		if !strings.Contains(string(b), key) {
			t.Errorf("report JSON missing %s", key)
		}
	}
}

func TestPipelineInvalidRows(t *testing.T) {
	t.Parallel()

	res, err := NewTrainer(DefaultOptions()).Train(context.Background(), transactions(t, 60))
	if err != nil {
		t.Fatal(err)
	}

	missing := dataset.MustTable([]string{"Amount"}, [][]string{{"1"}})
	_, err = res.Pipeline.Predict(context.Background(), missing)
	var mce *dataset.MissingColumnError
	if !errors.Is(err, ErrInvalidRows) || !errors.As(err, &mce) {
		t.Errorf("missing columns: got %v", err)
	}

	if _, err := (&Pipeline{Kind: KindFraud}).Predict(context.Background(), missing); errors.Is(err, ErrInvalidRows) {
		t.Error("an unfitted pipeline is not an input error")
	}
}
