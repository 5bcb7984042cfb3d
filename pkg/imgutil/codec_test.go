package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// テスト用のダミー画像（w x h の赤い矩形）を作成するヘルパー
func createDummyImageData(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}

	buf := new(bytes.Buffer)
	var err error
	switch format {
	case "png":
		err = png.Encode(buf, img)
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	default:
		t.Fatalf("unsupported format: %s", format)
	}
	require.NoError(t, err, "failed to encode dummy image")
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	t.Run("PNG をデコードできること", func(t *testing.T) {
		img, format, err := Decode(createDummyImageData(t, "png", 10, 10))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, 10, img.Bounds().Dx())
	})

	t.Run("空データはエラー", func(t *testing.T) {
		_, _, err := Decode(nil)
		assert.Error(t, err)
	})

	t.Run("画像でないデータはエラー", func(t *testing.T) {
		_, _, err := Decode([]byte("this is not an image"))
		assert.Error(t, err)
	})
}

func TestNormalizeToPNG(t *testing.T) {
	t.Run("JPEG を PNG に変換できること", func(t *testing.T) {
		got, err := NormalizeToPNG(createDummyImageData(t, "jpeg", 8, 8))
		require.NoError(t, err)

		_, format, err := image.Decode(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
	})

	t.Run("PNG はそのまま返すこと", func(t *testing.T) {
		in := createDummyImageData(t, "png", 8, 8)
		got, err := NormalizeToPNG(in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("不正なデータはエラー", func(t *testing.T) {
		_, err := NormalizeToPNG([]byte("broken"))
		assert.Error(t, err)
	})
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"横長は幅に合わせる", 400, 200, 200, 200, 200, 100},
		{"縦長は高さに合わせる", 100, 400, 200, 200, 50, 200},
		{"収まっていれば拡大しない", 50, 40, 200, 200, 50, 40},
		{"枠が 0 ならそのまま", 300, 300, 0, 0, 300, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := FitWithin(src, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestNewPreview(t *testing.T) {
	p, err := NewPreview(createDummyImageData(t, "png", 40, 20), 20, 20)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Width)
	assert.Equal(t, 20, p.Height)
	assert.Equal(t, "png", p.Format)
	assert.Equal(t, 20, p.Image.Bounds().Dx())
	assert.Equal(t, 10, p.Image.Bounds().Dy())
}
