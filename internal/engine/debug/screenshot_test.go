package debug

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedScreenshots(dir string) *Screenshots {
	s := NewScreenshots(dir, "ocean")
	s.now = func() time.Time {
		return time.Date(2024, 3, 9, 14, 5, 7, 250*int(time.Millisecond), time.UTC)
	}
	return s
}

func TestFilename(t *testing.T) {
	s := fixedScreenshots("shots")
	want := filepath.Join("shots", "ocean_2024-03-09_14-05-07.250.png")
	if got := s.Filename(); got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}

	s.dir = ""
	if got := s.Filename(); got != "ocean_2024-03-09_14-05-07.250.png" {
		t.Errorf("Filename() without dir = %q", got)
	}
}

func TestSaveFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := fixedScreenshots(dir)

	// 1x2 frame, bottom row red, top row blue.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := s.Save(pixels, 1, 2)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	top := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
	bottom := color.RGBAModel.Convert(img.At(0, 1)).(color.RGBA)
	if top != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top pixel = %v, want blue", top)
	}
	if bottom != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom pixel = %v, want red", bottom)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	s := fixedScreenshots(t.TempDir())

	tests := []struct {
		name   string
		pixels []byte
		w, h   int
	}{
		{"short buffer", make([]byte, 7), 1, 2},
		{"zero width", nil, 0, 2},
		{"negative height", nil, 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Save(tt.pixels, tt.w, tt.h); err == nil {
				t.Error("Save() expected error")
			}
		})
	}
}
