// internal/adapters/output/json_test.go
package output

import (
	"os"
	"path/filepath"
	"testing"

	"hermesx/internal/core/domain"
	"hermesx/internal/testutil"
)

func TestLoadBusinesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.json")
	content := `[
		{"name": "Acme", "link": "https://maps.example.com/acme", "website": "https://acme.com"},
		{"name": "Siteless", "link": "https://maps.example.com/siteless"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing input file: %v", err)
	}

	records, err := LoadBusinesses(path)
	testutil.AssertNoError(t, err, "LoadBusinesses")
	testutil.AssertEqual(t, len(records), 2, "record count")
	testutil.AssertEqual(t, records[0].Name, "Acme", "first record name")
	testutil.AssertEqual(t, records[0].Website, "https://acme.com", "first record website")
	testutil.AssertFalse(t, records[1].HasWebsite(), "second record has no website")
}

func TestLoadBusinessesMissingFile(t *testing.T) {
	_, err := LoadBusinesses("/does/not/exist.json")
	testutil.AssertError(t, err, "missing file")
}

func TestLoadBusinessesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writing input file: %v", err)
	}
	_, err := LoadBusinesses(path)
	testutil.AssertError(t, err, "malformed input")
}

func TestWriteBusinessesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "enriched.json")

	records := []*domain.Business{
		{Name: "Acme", Link: "https://maps.example.com/acme", Website: "https://acme.com"},
		{Name: "Siteless", Link: "https://maps.example.com/siteless"},
	}
	records[0].MarkFound("info@acme.com", domain.MethodTier1Regex)
	records[1].MarkNoWebsite()

	err := WriteBusinesses(path, records)
	testutil.AssertNoError(t, err, "WriteBusinesses")

	loaded, err := LoadBusinesses(path)
	testutil.AssertNoError(t, err, "reload")
	testutil.AssertEqual(t, len(loaded), 2, "record count preserved")
	testutil.AssertEqual(t, loaded[0].Email, "info@acme.com", "email survives round trip")
	testutil.AssertEqual(t, loaded[0].Status, domain.StatusTier1Success, "status survives round trip")
	testutil.AssertEqual(t, loaded[1].Status, domain.StatusNoWebsite, "no_website status survives")
	testutil.AssertEqual(t, loaded[1].Email, "", "absent email stays absent")
}
