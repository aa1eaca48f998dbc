package dataset

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"skillboard/internal/model"
)

const sampleJSON = `{
  "skills": [
    {"id": 1, "name": "React", "category": "frontend", "level": 80},
    {"id": 2, "name": "Figma", "category": "design", "level": 40}
  ],
  "tasks": [
    {"id": 1, "skillId": 1, "text": "hooks", "priority": "high", "done": false},
    {"id": 2, "skillId": 1, "text": "suspense", "priority": "urgent", "done": true}
  ]
}`

const sampleYAML = `
skills:
  - {id: 1, name: React, category: frontend, level: 80}
tasks:
  - {id: 1, skillId: 1, text: hooks, priority: high, done: true}
`

func TestDecodeJSON(t *testing.T) {
	ds, err := DecodeJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(ds.Skills) != 2 || len(ds.Tasks) != 2 {
		t.Fatalf("expected 2 skills and 2 tasks, got %d/%d", len(ds.Skills), len(ds.Tasks))
	}
	// Unknown enumeration values are carried through.
	if ds.Skills[1].Category != "design" || ds.Tasks[1].Priority != "urgent" {
		t.Fatalf("expected unknown values preserved, got %+v %+v", ds.Skills[1], ds.Tasks[1])
	}
	if ds.Tasks[0].SkillID != 1 || !ds.Tasks[1].Done {
		t.Fatalf("unexpected task fields: %+v", ds.Tasks)
	}
}

func TestDecodeJSON_StructuralErrors(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		field string
	}{
		{"missing skills", `{"tasks": []}`, "skills"},
		{"missing tasks", `{"skills": []}`, "tasks"},
		{"skills not a sequence", `{"skills": {"id": 1}, "tasks": []}`, "skills"},
		{"tasks null", `{"skills": [], "tasks": null}`, "tasks"},
		{"tasks string", `{"skills": [], "tasks": "nope"}`, "tasks"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeJSON([]byte(tc.in))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FormatError, got %v", err)
			}
			if fe.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, fe.Field)
			}
		})
	}
}

func TestDecodeJSON_EmptySequences(t *testing.T) {
	ds, err := DecodeJSON([]byte(`{"skills": [], "tasks": []}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if ds.Skills == nil || ds.Tasks == nil {
		t.Fatalf("expected non-nil empty slices")
	}
}

func TestDecodeJSON_Malformed(t *testing.T) {
	if _, err := DecodeJSON([]byte(`{"skills": [`)); err == nil {
		t.Fatalf("expected error for malformed json")
	}
	if _, err := DecodeJSON([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected error for non-object json")
	}
}

func TestDecodeYAML(t *testing.T) {
	ds, err := DecodeYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if len(ds.Skills) != 1 || ds.Skills[0].Name != "React" || ds.Skills[0].Level != 80 {
		t.Fatalf("unexpected skills: %+v", ds.Skills)
	}
	if len(ds.Tasks) != 1 || !ds.Tasks[0].Done || ds.Tasks[0].SkillID != 1 {
		t.Fatalf("unexpected tasks: %+v", ds.Tasks)
	}
}

func TestDecodeYAML_StructuralErrors(t *testing.T) {
	cases := []struct {
		in    string
		field string
	}{
		{"tasks: []\n", "skills"},
		{"skills: []\ntasks: 3\n", "tasks"},
		{"skills:\n  a: b\ntasks: []\n", "skills"},
	}
	for _, tc := range cases {
		_, err := DecodeYAML([]byte(tc.in))
		var fe *FormatError
		if !errors.As(err, &fe) || fe.Field != tc.field {
			t.Fatalf("DecodeYAML(%q): expected FormatError on %q, got %v", tc.in, tc.field, err)
		}
	}
	if _, err := DecodeYAML([]byte("- 1\n- 2\n")); err == nil {
		t.Fatalf("expected error for top-level sequence")
	}
}

func TestFormatForPath(t *testing.T) {
	cases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"skills.json", FormatJSON, false},
		{"a/b/SKILLS.YAML", FormatYAML, false},
		{"x.yml", FormatYAML, false},
		{"x.sqlite", FormatSQLite, false},
		{"x.db", FormatSQLite, false},
		{"x.csv", "", true},
	}
	for _, tc := range cases {
		got, err := FormatForPath(tc.in)
		if tc.wantErr != (err != nil) {
			t.Fatalf("FormatForPath(%q): err=%v wantErr=%v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Fatalf("FormatForPath(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "skills.json")
	if err := os.WriteFile(p, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := LoadFile(context.Background(), p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(ds.Skills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(ds.Skills))
	}

	if _, err := LoadFile(context.Background(), filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSQLite_ImportThenLoadKeepsOrder(t *testing.T) {
	ctx := context.Background()
	ds, err := DecodeJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	// Reverse ids so ordering by id would differ from load order.
	ds.Skills[0].ID, ds.Skills[1].ID = 9, 3

	p := filepath.Join(t.TempDir(), "nested", "skills.sqlite")
	if err := Import(ctx, ds, p); err != nil {
		t.Fatalf("Import: %v", err)
	}
	// Importing twice replaces rather than appends.
	if err := Import(ctx, ds, p); err != nil {
		t.Fatalf("Import (again): %v", err)
	}

	got, err := LoadFile(ctx, p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got.Skills) != 2 || got.Skills[0].ID != 9 || got.Skills[1].ID != 3 {
		t.Fatalf("unexpected skills: %+v", got.Skills)
	}
	if len(got.Tasks) != 2 || got.Tasks[1].Priority != "urgent" || !got.Tasks[1].Done {
		t.Fatalf("unexpected tasks: %+v", got.Tasks)
	}
}

func TestLoadSQLite_MissingTable(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "partial.db")
	db, err := sql.Open("sqlite", p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE skills (seq INTEGER PRIMARY KEY, json TEXT)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = db.Close()

	_, err = LoadSQLite(ctx, p)
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Field != "tasks" {
		t.Fatalf("expected missing tasks FormatError, got %v", err)
	}
}

func TestLoadSQLite_DoesNotCreateMissingFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nope.sqlite")
	if _, err := LoadSQLite(context.Background(), p); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file not to be created")
	}
}

func TestEncode_YAMLIsDecodable(t *testing.T) {
	ds := model.Dataset{Skills: []model.Skill{{ID: 1, Name: "Go", Category: "backend", Level: 70}}}
	var buf bytes.Buffer
	if err := Encode(&buf, ds, FormatYAML); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(buf.String(), "tasks: []") {
		t.Fatalf("expected empty tasks sequence in output:\n%s", buf.String())
	}
	if _, err := DecodeYAML(buf.Bytes()); err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
}

func TestCache_GetAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "skills.json")
	if err := os.WriteFile(p, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewCache(p)
	ctx := context.Background()

	ds, err := c.Get(ctx)
	if err != nil || len(ds.Skills) != 2 {
		t.Fatalf("Get: %v (%d skills)", err, len(ds.Skills))
	}
	if c.LoadedAt().IsZero() {
		t.Fatalf("expected LoadedAt to be set")
	}

	if err := os.WriteFile(p, []byte(`{"skills": [], "tasks": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, _ = c.Get(ctx)
	if len(ds.Skills) != 2 {
		t.Fatalf("expected cached copy before invalidation")
	}

	v := c.Version()
	c.Invalidate()
	if c.Version() != v+1 {
		t.Fatalf("expected version bump")
	}
	ds, err = c.Get(ctx)
	if err != nil || len(ds.Skills) != 0 {
		t.Fatalf("expected reload after invalidation, got %d skills (err=%v)", len(ds.Skills), err)
	}
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	p := filepath.Join(t.TempDir(), "skills.json")
	c := NewCache(p)
	if _, err := c.Get(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := os.WriteFile(p, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestWatch_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "skills.json")
	if err := os.WriteFile(p, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := Watch(ctx, p)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	// Writes to sibling files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(p, []byte(`{"skills": [], "tasks": []}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case ev := <-events:
		if filepath.Base(ev.Path) != "skills.json" {
			t.Fatalf("unexpected event path %q", ev.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for change event")
	}

	cancel()
	for range events {
	}
}
