package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/profile"
	"github.com/spigell/talent-discovery/internal/store"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seq := 0

	s, err := Open(path, zap.NewNop(),
		store.WithClock(func() time.Time {
			now = now.Add(time.Minute)
			return now
		}),
		store.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenCreatesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "profiles.json")
	openTestStore(t, path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read store: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestOpenKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	// Older files may lack the list fields entirely.
	if err := os.WriteFile(path, []byte(`[{"id":"x","name":"Ada","bio":"math"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, path)
	profiles, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(profiles) != 1 || profiles[0].Name != "Ada" {
		t.Fatalf("unexpected profiles: %+v", profiles)
	}
	if profiles[0].Skills == nil || profiles[0].Interests == nil {
		t.Fatalf("expected missing lists to be normalized")
	}
}

func TestNullFileListsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte("null\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	profiles, err := openTestStore(t, path).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if profiles == nil || len(profiles) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", profiles)
	}
}

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "profiles.json"))

	first, err := s.Create(ctx, profile.Input{Name: " Ada ", Bio: "Mathematician", Skills: []string{"Math", " "}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.ID != "id-1" || first.Name != "Ada" || len(first.Skills) != 1 {
		t.Fatalf("unexpected created profile: %+v", first)
	}

	if _, err := s.Create(ctx, profile.Input{Name: "Linus", Bio: "Kernel hacker"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "id-1" || list[1].ID != "id-2" {
		t.Fatalf("expected insertion order, got %+v", list)
	}

	bio := "Analytical engine programmer"
	updated, err := s.Update(ctx, "id-1", profile.Update{Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Bio != bio || !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("unexpected updated profile: %+v", updated)
	}

	got, err := s.Get(ctx, "id-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Bio != bio || got.Name != "Ada" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := s.Delete(ctx, "id-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ = s.List(ctx)
	if len(list) != 1 || list[0].ID != "id-2" {
		t.Fatalf("unexpected list after delete: %+v", list)
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "profiles.json"))

	name := "x"
	checks := map[string]error{
		"get": func() error { _, err := s.Get(ctx, "missing"); return err }(),
		"update": func() error {
			_, err := s.Update(ctx, "missing", profile.Update{Name: &name})
			return err
		}(),
		"delete": s.Delete(ctx, "missing"),
	}

	for op, err := range checks {
		if !errors.Is(err, profile.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", op, err)
		}
	}
}

func TestCreateValidates(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "profiles.json"))

	if _, err := s.Create(context.Background(), profile.Input{Name: "only name"}); err == nil {
		t.Fatalf("expected validation error")
	}
	list, _ := s.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("invalid profile must not be stored")
	}
}

func TestStoresShareFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	writer := openTestStore(t, path)
	reader := openTestStore(t, path)

	if _, err := writer.Create(context.Background(), profile.Input{Name: "Grace", Bio: "COBOL"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := reader.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Grace" {
		t.Fatalf("expected second store to see the write, got %+v", list)
	}
}

func TestFileIsIndentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	s := openTestStore(t, path)

	if _, err := s.Create(context.Background(), profile.Input{Name: "Ada", Bio: "math"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n    \"name\": \"Ada\"") {
		t.Fatalf("expected two-space indented output, got:\n%s", data)
	}

	matches, _ := filepath.Glob(path + ".*.tmp")
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t, path)
	if _, err := s.List(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}
