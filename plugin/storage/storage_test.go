package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutRead(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "https://notes.test/")

	err := s.Put(context.Background(), "covers/dune/1234", []byte("blob"), "image/jpeg")
	require.NoError(t, err)

	data, err := s.Read("covers/dune/1234")
	require.NoError(t, err)
	require.Equal(t, []byte("blob"), data)

	require.Equal(t, "https://notes.test/o/covers/dune/1234", s.PublicURL("covers/dune/1234"))
}

func TestLocalStoragePublicURLEscapesSegments(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "https://notes.test")

	require.Equal(t, "https://notes.test/o/covers/the%20hobbit/1234", s.PublicURL("covers/the hobbit/1234"))
	require.Equal(t, "https://notes.test/o/covers/%E4%B8%89%E4%BD%93/1", s.PublicURL("covers/三体/1"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "https://notes.test")

	err := s.Put(context.Background(), "../escape", []byte("x"), "")
	require.Error(t, err)

	_, err = s.Read("/etc/passwd")
	require.Error(t, err)
}

func TestLocalStorageRemove(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "https://notes.test")
	require.NoError(t, s.Put(context.Background(), "assets/a.txt", []byte("x"), ""))
	require.NoError(t, s.Remove("assets/a.txt"))
	_, err := s.Read("assets/a.txt")
	require.Error(t, err)

	// Removing twice is fine.
	require.NoError(t, s.Remove("assets/a.txt"))
}

func testImageJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestThumbnailerGenerate(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "https://notes.test")
	thumbnailer := NewThumbnailer(s)

	blob := testImageJPEG(t, 1600, 900)
	thumb, err := thumbnailer.Generate(context.Background(), "wide.jpg", blob)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	require.Equal(t, 720, img.Bounds().Dx())

	// Second call serves the cached file.
	cached, err := thumbnailer.Generate(context.Background(), "wide.jpg", nil)
	require.NoError(t, err)
	require.Equal(t, thumb, cached)
}

func TestThumbnailerGenerateSmallImageUnscaled(t *testing.T) {
	s := NewLocalStorage(t.TempDir(), "https://notes.test")
	thumbnailer := NewThumbnailer(s)

	thumb, err := thumbnailer.Generate(context.Background(), "small.jpg", testImageJPEG(t, 200, 300))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(thumb))
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
}

func TestThumbnailerResize(t *testing.T) {
	thumbnailer := NewThumbnailer(NewLocalStorage(t.TempDir(), "https://notes.test"))

	resized, err := thumbnailer.Resize(testImageJPEG(t, 1024, 512), 256)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(resized))
	require.NoError(t, err)
	require.LessOrEqual(t, img.Bounds().Dx(), 256)
	require.LessOrEqual(t, img.Bounds().Dy(), 256)

	_, err = thumbnailer.Resize([]byte("not an image"), 256)
	require.Error(t, err)
}

func TestSupportsThumbnail(t *testing.T) {
	require.True(t, SupportsThumbnail("image/jpeg"))
	require.True(t, SupportsThumbnail("image/png"))
	require.False(t, SupportsThumbnail("image/gif"))
	require.False(t, SupportsThumbnail("application/pdf"))
}
