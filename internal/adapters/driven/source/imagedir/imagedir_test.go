package imagedir

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

func writePage(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testDeck(t *testing.T, pages int) string {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < pages; i++ {
		shade := uint8(50 + i*40)
		writePage(t, filepath.Join(dir, string(rune('a'+i))+".png"), 40, 30, color.RGBA{R: shade, A: 255})
	}
	return dir
}

func TestOpen_CountsAndOrdersPages(t *testing.T) {
	dir := testDeck(t, 3)
	// Non-image files are not pages.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "talk_notes.txt"), []byte("n"), 0o600))

	src := New()
	doc, err := src.Open(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, doc.Path)
	assert.Equal(t, 3, doc.PageCount)
}

func TestOpen_ReportsNativePageDimensions(t *testing.T) {
	dir := t.TempDir()
	writePage(t, filepath.Join(dir, "a.png"), 64, 64, color.RGBA{R: 10, A: 255})

	doc, err := New().Open(context.Background(), dir)
	require.NoError(t, err)

	// The first page defines the logical page space; render canvases
	// never do.
	assert.Equal(t, 64, doc.PageWidth)
	assert.Equal(t, 64, doc.PageHeight)
	w, h := doc.AspectRatio()
	assert.Equal(t, w, h)
}

func TestOpen_UndecodableFirstPageFallsBackToDefaultAspect(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("not a png"), 0o600))
	writePage(t, filepath.Join(dir, "b.png"), 40, 30, color.RGBA{R: 10, A: 255})

	doc, err := New().Open(context.Background(), dir)
	require.NoError(t, err)

	assert.Zero(t, doc.PageWidth)
	w, h := doc.AspectRatio()
	assert.Equal(t, 4.0, w)
	assert.Equal(t, 3.0, h)
}

func TestOpen_EmptyDirectory(t *testing.T) {
	_, err := New().Open(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
}

func TestOpen_MissingDirectory(t *testing.T) {
	_, err := New().Open(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, domain.ErrDocumentUnreadable)
}

func TestRasterize_ExactCanvasSize(t *testing.T) {
	src := New()
	_, err := src.Open(context.Background(), testDeck(t, 2))
	require.NoError(t, err)

	bmp, err := src.Rasterize(context.Background(), 0, 200, 100)
	require.NoError(t, err)

	assert.Equal(t, 200, bmp.Bounds().Dx())
	assert.Equal(t, 100, bmp.Bounds().Dy())
}

func TestRasterize_LetterboxesMismatchedAspect(t *testing.T) {
	src := New()
	_, err := src.Open(context.Background(), testDeck(t, 1))
	require.NoError(t, err)

	// Page aspect is 4:3; a 400x100 canvas letterboxes left and right.
	bmp, err := src.Rasterize(context.Background(), 0, 400, 100)
	require.NoError(t, err)

	// Margins are white, the centred band carries the page colour.
	r, g, b, _ := bmp.At(5, 50).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})

	r, _, _, _ = bmp.At(200, 50).RGBA()
	assert.Equal(t, uint32(50*0x101), r)
}

func TestRasterize_PagesAreDistinct(t *testing.T) {
	src := New()
	_, err := src.Open(context.Background(), testDeck(t, 2))
	require.NoError(t, err)

	first, err := src.Rasterize(context.Background(), 0, 40, 30)
	require.NoError(t, err)
	second, err := src.Rasterize(context.Background(), 1, 40, 30)
	require.NoError(t, err)

	r0, _, _, _ := first.At(20, 15).RGBA()
	r1, _, _, _ := second.At(20, 15).RGBA()
	assert.NotEqual(t, r0, r1)
}

func TestRasterize_OutOfRange(t *testing.T) {
	src := New()
	_, err := src.Open(context.Background(), testDeck(t, 2))
	require.NoError(t, err)

	_, err = src.Rasterize(context.Background(), 2, 40, 30)
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
	_, err = src.Rasterize(context.Background(), -1, 40, 30)
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
}

func TestRasterize_CorruptPage(t *testing.T) {
	dir := testDeck(t, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "z.png"), []byte("not a png"), 0o600))

	src := New()
	doc, err := src.Open(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 2, doc.PageCount)

	_, err = src.Rasterize(context.Background(), 1, 40, 30)
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
}
