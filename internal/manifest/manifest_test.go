package manifest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsdinok/rekordscratch/internal/testutil"
)

func TestParseReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "header only",
			input: "#\tArtwork\tTrack Title\n",
			want:  nil,
		},
		{
			name:  "header is skipped even when it looks like a row",
			input: "1\t\tHeader Song\n2\t\tReal Song\n",
			want:  []string{"Real Song"},
		},
		{
			name:  "title is trimmed",
			input: "h\n1\t\t  Padded Song \t Artist\n",
			want:  []string{"Padded Song"},
		},
		{
			name:  "single field lines are skipped",
			input: "h\njust text\n\n1\t\tKept\n",
			want:  []string{"Kept"},
		},
		{
			name:  "two field lines have no title column",
			input: "h\n1\tArtwork\n",
			want:  nil,
		},
		{
			name:  "crlf line endings",
			input: "h\r\n1\t\tWindows Song\tArtist\r\n",
			want:  []string{"Windows Song"},
		},
		{
			name:  "duplicates are kept in order",
			input: "h\n1\t\tA\n2\t\tB\n3\t\tA\n",
			want:  []string{"A", "B", "A"},
		},
		{
			name:  "empty title column",
			input: "h\n1\t\t\tArtist\n",
			want:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseReader("House.txt", strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseReader() error = %v", err)
			}
			if m.SourceFileName != "House.txt" {
				t.Errorf("SourceFileName = %q, want %q", m.SourceFileName, "House.txt")
			}
			if len(m.Titles) != len(tt.want) {
				t.Fatalf("Titles = %q, want %q", m.Titles, tt.want)
			}
			for i := range tt.want {
				if m.Titles[i] != tt.want[i] {
					t.Errorf("Titles[%d] = %q, want %q", i, m.Titles[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsManifest(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"House.txt", true},
		{"House.TXT", true},
		{"House.Txt", true},
		{"House.csv", false},
		{"House", false},
		{"txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsManifest(tt.name); got != tt.want {
				t.Errorf("IsManifest(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteManifest(t, dir, "House.txt", testutil.Row("Song A"), testutil.Row("Song B"))
	testutil.WriteManifest(t, dir, "Techno.TXT", testutil.Row("Song C"))
	testutil.WriteManifest(t, dir, "notes.md", testutil.Row("Ignored"))
	if err := os.Mkdir(filepath.Join(dir, "Nested.txt"), 0o755); err != nil {
		t.Fatal(err)
	}
	testutil.WriteManifest(t, filepath.Join(dir, "Nested.txt"), "Deep.txt", testutil.Row("Deep Song"))

	idx := NewIndex()
	merged, err := Build(dir, idx)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if merged != 2 {
		t.Errorf("merged = %d, want 2", merged)
	}
	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}

	want := map[string]string{
		"Song A": "House.txt",
		"Song B": "House.txt",
		"Song C": "Techno.TXT",
	}
	for title, bucket := range want {
		got, ok := idx.Lookup(title)
		if !ok || got != bucket {
			t.Errorf("Lookup(%q) = %q, %v; want %q, true", title, got, ok, bucket)
		}
	}
	for _, title := range []string{"Ignored", "Deep Song", "Track Title"} {
		if _, ok := idx.Lookup(title); ok {
			t.Errorf("Lookup(%q) found an entry, want none", title)
		}
	}
}

func TestBuild_DuplicateTitleSomeManifestWins(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteManifest(t, dir, "A.txt", testutil.Row("Shared"))
	testutil.WriteManifest(t, dir, "B.txt", testutil.Row("Shared"))

	idx := NewIndex()
	if _, err := Build(dir, idx); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got, ok := idx.Lookup("Shared")
	if !ok {
		t.Fatal("Lookup(Shared) not found")
	}
	if got != "A.txt" && got != "B.txt" {
		t.Errorf("Lookup(Shared) = %q, want one of the two manifests", got)
	}
}

func TestBuild_MissingDir(t *testing.T) {
	idx := NewIndex()
	_, err := Build(filepath.Join(t.TempDir(), "missing"), idx)
	if err == nil {
		t.Fatal("Build() error = nil, want error")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Build() error = %v, want not-exist", err)
	}
}

func TestLookup_IsCaseSensitive(t *testing.T) {
	idx := NewIndex()
	idx.Put("Song A", "House.txt")

	if _, ok := idx.Lookup("song a"); ok {
		t.Error("Lookup(song a) matched, want case-sensitive miss")
	}
	if _, ok := idx.Lookup("Song A "); ok {
		t.Error("Lookup with trailing space matched, want exact miss")
	}
}
