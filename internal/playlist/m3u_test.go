package playlist

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/radioterm/radioterm/internal/station"
)

func TestExportM3U(t *testing.T) {
	stations := []station.Station{
		{Name: "Jazz FM", URL: "http://a/stream"},
		{Name: "Rock One", URL: "http://b/stream"},
	}

	var b strings.Builder
	if err := ExportM3U(stations, &b); err != nil {
		t.Fatalf("ExportM3U() error = %v", err)
	}

	expected := "#EXTM3U\n\n" +
		"#EXTINF:-1,Jazz FM\nhttp://a/stream\n\n" +
		"#EXTINF:-1,Rock One\nhttp://b/stream\n\n"
	if b.String() != expected {
		t.Errorf("ExportM3U() output = %q, want %q", b.String(), expected)
	}
}

func TestImportM3U(t *testing.T) {
	input := "#EXTM3U\n\n#EXTINF:-1,Jazz FM\nhttp://a/stream\n\n#EXTINF:-1,Rock One\nhttp://b/stream\n"

	stations, err := ImportM3U(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportM3U() error = %v", err)
	}

	expected := []station.Station{
		{Name: "Jazz FM", URL: "http://a/stream"},
		{Name: "Rock One", URL: "http://b/stream"},
	}
	if !reflect.DeepEqual(stations, expected) {
		t.Errorf("ImportM3U() = %v, want %v", stations, expected)
	}
}

func TestImportM3USkipsCommentsAndBlankLines(t *testing.T) {
	input := "#EXTM3U\n# some comment\n\nhttp://bare/stream\n"

	stations, err := ImportM3U(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportM3U() error = %v", err)
	}

	if len(stations) != 1 {
		t.Fatalf("ImportM3U() returned %d stations, want 1", len(stations))
	}
	if stations[0].Name != "" || stations[0].URL != "http://bare/stream" {
		t.Errorf("ImportM3U()[0] = %+v, want empty name and bare URL", stations[0])
	}
}

func TestConvertFileTxtToM3UAndBack(t *testing.T) {
	tmpDir := t.TempDir()
	txtPath := filepath.Join(tmpDir, "in.txt")
	m3uPath := filepath.Join(tmpDir, "out.m3u")
	backPath := filepath.Join(tmpDir, "back.txt")

	content := "name: Jazz FM link: http://a/stream\nname: Rock One link: http://b/stream\n"
	if err := os.WriteFile(txtPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := ConvertFile(txtPath, m3uPath); err != nil {
		t.Fatalf("ConvertFile(txt->m3u) error = %v", err)
	}
	if err := ConvertFile(m3uPath, backPath); err != nil {
		t.Fatalf("ConvertFile(m3u->txt) error = %v", err)
	}

	back, err := os.ReadFile(backPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(back) != content {
		t.Errorf("round trip = %q, want %q", string(back), content)
	}
}

func TestConvertFileUnsupportedFormat(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "in.pls")
	if err := os.WriteFile(srcPath, []byte("[playlist]\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := ConvertFile(srcPath, filepath.Join(tmpDir, "out.txt")); err == nil {
		t.Error("ConvertFile() with unsupported source should return an error")
	}
}
