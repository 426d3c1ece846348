package server

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jerryjiang063/noteshub/plugin/storage"
	apiv1 "github.com/jerryjiang063/noteshub/server/router/api/v1"
)

func newBlobTestServer(t *testing.T) (*Server, *storage.LocalStorage) {
	t.Helper()
	localStorage := storage.NewLocalStorage(t.TempDir(), "https://notes.test")
	server := &Server{
		apiService: &apiv1.APIV1Service{
			Storage:     localStorage,
			Thumbnailer: storage.NewThumbnailer(localStorage),
		},
	}
	return server, localStorage
}

func getBlob(t *testing.T, server *Server, target string) (int, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	err := server.serveBlob(c)
	if err != nil {
		var httpErr *echo.HTTPError
		require.ErrorAs(t, err, &httpErr)
		return httpErr.Code, rec
	}
	return rec.Code, rec
}

func TestServeBlob(t *testing.T) {
	server, localStorage := newBlobTestServer(t)
	require.NoError(t, localStorage.Put(context.Background(), "covers/dune/1234", []byte("blob"), "image/jpeg"))

	code, rec := getBlob(t, server, "/o/covers/dune/1234")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []byte("blob"), rec.Body.Bytes())

	code, _ = getBlob(t, server, "/o/covers/missing/1")
	require.Equal(t, http.StatusNotFound, code)
}

func TestServeBlobRoundTripsEscapedPaths(t *testing.T) {
	server, localStorage := newBlobTestServer(t)
	require.NoError(t, localStorage.Put(context.Background(), "covers/the hobbit/1234", []byte("hobbit-jpeg"), "image/jpeg"))
	require.NoError(t, localStorage.Put(context.Background(), "covers/三体/1", []byte("santi-jpeg"), "image/jpeg"))

	// The public url of a multi-word key carries escaped segments; fetching it
	// must reach the stored blob.
	code, rec := getBlob(t, server, localStorage.PublicURL("covers/the hobbit/1234"))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []byte("hobbit-jpeg"), rec.Body.Bytes())

	code, rec = getBlob(t, server, localStorage.PublicURL("covers/三体/1"))
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []byte("santi-jpeg"), rec.Body.Bytes())
}

func serverTestImageJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: uint8(x % 256), A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))
	return buf.Bytes()
}

func TestServeBlobThumbnail(t *testing.T) {
	server, localStorage := newBlobTestServer(t)
	original := serverTestImageJPEG(t, 1600, 900)
	require.NoError(t, localStorage.Put(context.Background(), "covers/dune/1234", original, "image/jpeg"))

	code, rec := getBlob(t, server, "/o/covers/dune/1234?thumbnail=true")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "image/jpeg", rec.Header().Get(echo.HeaderContentType))

	img, err := imaging.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 720, img.Bounds().Dx())

	// A blob that cannot be thumbnailed is served as-is.
	require.NoError(t, localStorage.Put(context.Background(), "assets/a.txt", []byte("plain text content"), ""))
	code, rec = getBlob(t, server, "/o/assets/a.txt?thumbnail=true")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []byte("plain text content"), rec.Body.Bytes())
}
