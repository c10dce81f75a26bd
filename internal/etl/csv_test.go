package etl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCSVReaderMapsHeaders(t *testing.T) {
	mapper := NewFieldMapper(map[string]map[string]string{
		"matches": {"date": "match_date", "home": "home_team_name"},
	})
	reader := NewCSVReader(mapper, true, nil)

	path := writeTestCSV(t, "schedule_results.csv",
		"Date,Home,Score\n2019-08-09,Liverpool,4-1\n")

	records, skipped, err := reader.ReadFile(path, "matches")
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	if got := records[0].Get("match_date"); got != "2019-08-09" {
		t.Errorf("match_date = %q", got)
	}
	if got := records[0].Get("home_team_name"); got != "Liverpool" {
		t.Errorf("home_team_name = %q", got)
	}
	if got := records[0].Get("score"); got != "4-1" {
		t.Errorf("score = %q", got)
	}
}

func TestCSVReaderMissingFile(t *testing.T) {
	reader := NewCSVReader(NewFieldMapper(nil), true, nil)

	_, _, err := reader.ReadFile(filepath.Join(t.TempDir(), "absent.csv"), "matches")
	if !errors.Is(err, ErrFileMissing) {
		t.Fatalf("err = %v, want ErrFileMissing", err)
	}
}

func TestCSVReaderMalformedRow(t *testing.T) {
	content := "a,b\n1,2\n3,4,5\n6,7\n"

	strict := NewCSVReader(NewFieldMapper(nil), true, nil)
	path := writeTestCSV(t, "strict.csv", content)
	if _, _, err := strict.ReadFile(path, "x"); err == nil {
		t.Fatal("strict mode expected error on ragged row")
	}

	lenient := NewCSVReader(NewFieldMapper(nil), false, nil)
	path = writeTestCSV(t, "lenient.csv", content)
	records, skipped, err := lenient.ReadFile(path, "x")
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
}

func TestCSVReaderEmptyFile(t *testing.T) {
	reader := NewCSVReader(NewFieldMapper(nil), true, nil)
	path := writeTestCSV(t, "empty.csv", "")

	records, _, err := reader.ReadFile(path, "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Fatalf("records = %d, want 0", len(records))
	}
}

func TestFieldMapperPassthrough(t *testing.T) {
	mapper := NewFieldMapper(map[string]map[string]string{
		"standings": {"squad": "team_name"},
	})

	headers := mapper.Rename("standings", []string{"Rk", "Squad", "Pts"})
	want := []string{"rk", "team_name", "pts"}
	for i, header := range headers {
		if header != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, header, want[i])
		}
	}

	headers = mapper.Rename("unknown", []string{"Squad"})
	if headers[0] != "squad" {
		t.Errorf("unknown key header = %q, want %q", headers[0], "squad")
	}
}
