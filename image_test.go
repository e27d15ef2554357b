package prez

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/k1LoW/errors"
)

// testImage is a small gradient, busy enough that encoders produce distinct
// byte streams.
func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 8), B: 0x60, A: 0xFF})
		}
	}
	return img
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, testPNG(t), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewImageLocal(t *testing.T) {
	ctx := context.Background()
	path := writeTestPNG(t, t.TempDir(), "chart.png")

	img, err := NewImage(ctx, nil, path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "png"; img.Ext() != want {
		t.Errorf("Ext = %q, want %q", img.Ext(), want)
	}
	if !bytes.Equal(img.Bytes(), testPNG(t)) {
		t.Error("want raw bytes to match the file")
	}
	if img.Checksum() == 0 {
		t.Error("want a non-zero checksum")
	}

	// A second load with an unchanged mod time hits the cache.
	again, err := NewImage(ctx, nil, path)
	if err != nil {
		t.Fatal(err)
	}
	if img != again {
		t.Error("want the cached image to be reused")
	}
}

func TestNewImageMissing(t *testing.T) {
	_, err := NewImage(context.Background(), nil, filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("want error for a missing file")
	}
	var nf *AssetNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error = %T, want *AssetNotFoundError", err)
	}
	if nf.Path == "" {
		t.Error("want the missing path to be reported")
	}
}

func TestNewImageUnsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewImage(context.Background(), nil, path); err == nil {
		t.Error("want error for undecodable data")
	}
}

func TestNewImageRemote(t *testing.T) {
	ctx := context.Background()
	data := testPNG(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want %q", got, userAgent)
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	img, err := NewImage(ctx, nil, srv.URL+"/chart.png")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(img.Bytes(), data) {
		t.Error("want fetched bytes to match")
	}
	// Remote images are cached by URL, so the second call never refetches.
	if _, err := NewImage(ctx, nil, srv.URL+"/chart.png"); err != nil {
		t.Fatal(err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("hits = %d, want 1", got)
	}
}

func TestNewImageRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	if _, err := NewImage(context.Background(), nil, srv.URL+"/gone.png"); err == nil {
		t.Error("want error for a non-200 response")
	}
}

func TestEquivalent(t *testing.T) {
	src := testImage()

	var plain, packed bytes.Buffer
	if err := (&png.Encoder{CompressionLevel: png.NoCompression}).Encode(&plain, src); err != nil {
		t.Fatal(err)
	}
	if err := (&png.Encoder{CompressionLevel: png.BestCompression}).Encode(&packed, src); err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(plain.Bytes(), packed.Bytes()) {
		t.Fatal("want distinct encodings of the same pixels")
	}
	a, err := newImageFromBuffer(&plain)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newImageFromBuffer(&packed)
	if err != nil {
		t.Fatal(err)
	}
	// Different bytes, same picture: the perceptual hash matches them.
	if !a.Equivalent(b) {
		t.Error("want re-encoded images to be equivalent")
	}

	var asGIF bytes.Buffer
	if err := gif.Encode(&asGIF, src, nil); err != nil {
		t.Fatal(err)
	}
	c, err := newImageFromBuffer(&asGIF)
	if err != nil {
		t.Fatal(err)
	}
	if a.Equivalent(c) {
		t.Error("want different formats to differ")
	}

	if a.Equivalent(nil) {
		t.Error("want nil to differ")
	}
}
