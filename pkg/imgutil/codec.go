package imgutil

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/shouni/style-image-kit/pkg/domain"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Decode は画像データ（PNG, JPEG, GIF, WebP, BMP）をデコードします。
// 空データや幅・高さが 0 の画像はエラーになります。
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", errors.New("画像データが空です")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, "", fmt.Errorf("画像サイズが不正です: %dx%d", b.Dx(), b.Dy())
	}
	return img, format, nil
}

// NormalizeToPNG は送信用に画像データを PNG へ再エンコードします。
// 既に PNG の場合はそのまま返します。
func NormalizeToPNG(data []byte) ([]byte, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if format == "png" {
		return data, nil
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FitWithin はアスペクト比を保ったまま maxW x maxH に収まるよう縮小します。
// 既に収まっている場合は元の画像を返します（拡大はしません）。
func FitWithin(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return img
	}

	// 幅と高さのうち、より強く縮める必要がある方に合わせる
	dw, dh := maxW, h*maxW/w
	if dh > maxH {
		dw, dh = w*maxH/h, maxH
	}
	dw, dh = max(dw, 1), max(dh, 1)

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// NewPreview はバイト列をデコードし、プレビュー枠に収めた domain.Preview を作成します。
func NewPreview(data []byte, maxW, maxH int) (*domain.Preview, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &domain.Preview{
		Image:  FitWithin(img, maxW, maxH),
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
	}, nil
}
