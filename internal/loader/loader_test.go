package loader

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tapeball/cricmetrics/internal/normalize"
)

const sampleCSV = `match_id,inning,over,batter,bowler,batting_team,bowling_team,batsman_runs,total_runs,is_wicket
2020001,1,1,V Kohli,JJ Bumrah,Royal Challengers Bengaluru,Mumbai Indians,4,4,0
2020001,1,1,V Kohli,JJ Bumrah,Royal Challengers Bengaluru,Mumbai Indians,0,1,0
2020001,1,2,AB de Villiers,TA Boult,Royal Challengers Bengaluru,Mumbai Indians,6,6,0
2020001,1,2,AB de Villiers,TA Boult,Royal Challengers Bengaluru,Mumbai Indians,0,0,1
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad_CSV(t *testing.T) {
	path := writeTemp(t, "deliveries.csv", sampleCSV)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Deliveries) != 4 {
		t.Fatalf("expected 4 deliveries, got %d", len(res.Deliveries))
	}
	if res.Skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", res.Skipped)
	}
	if res.Hash == "" {
		t.Error("expected non-empty dataset hash")
	}

	first := res.Deliveries[0]
	if first.Batter != "V Kohli" || first.BatsmanRuns != 4 || first.TotalRuns != 4 {
		t.Errorf("first row mismatch: %+v", first)
	}
	last := res.Deliveries[3]
	if !last.IsWicket {
		t.Error("expected last row to be a wicket")
	}
	// Seq must follow source order.
	for i, d := range res.Deliveries {
		if d.Seq != i {
			t.Errorf("row %d: seq %d, source order not preserved", i, d.Seq)
		}
	}
}

func TestLoad_Zip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deliveries.csv.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("deliveries.csv")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(sampleCSV)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load zip: %v", err)
	}
	if len(res.Deliveries) != 4 {
		t.Errorf("expected 4 deliveries from zip, got %d", len(res.Deliveries))
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	csv := "match_id,inning,over,batter,bowler,batting_team,bowling_team,batsman_runs\n" +
		"m1,1,1,A,B,X,Y,4\n"
	path := writeTemp(t, "bad.csv", csv)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected SchemaError for missing columns")
	}
	var schemaErr *normalize.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *normalize.SchemaError, got %T: %v", err, err)
	}
	if len(schemaErr.Missing) != 2 {
		t.Errorf("expected 2 missing columns (total_runs, is_wicket), got %v", schemaErr.Missing)
	}
}

func TestLoad_SkipsMalformedRows(t *testing.T) {
	csv := sampleCSV +
		"2020001,one,2,A,B,X,Y,4,4,0\n" + // bad inning
		"2020001,1,2,A,B,X,Y,4,4,maybe\n" // bad wicket flag
	path := writeTemp(t, "dirty.csv", csv)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Skipped != 2 {
		t.Errorf("expected 2 skipped rows, got %d", res.Skipped)
	}
	if len(res.Deliveries) != 4 {
		t.Errorf("expected 4 good deliveries, got %d", len(res.Deliveries))
	}
}

func TestLoad_HashStableAcrossReads(t *testing.T) {
	path := writeTemp(t, "deliveries.csv", sampleCSV)
	a, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	b, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.Hash != b.Hash {
		t.Errorf("hash not stable: %s vs %s", a.Hash, b.Hash)
	}
}
