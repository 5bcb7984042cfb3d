package domain

import "image"

// NoImageID は、前回の生成結果が存在しないことを示すセンチネル値です。
const NoImageID = "none"

// APICodeOK は API レスポンスの code が成功を示す値です。
const APICodeOK = 200

// GenerationRequest は単一のスタイル変換要求です。
// PreviousImageID は直前の生成結果を連鎖させるための ID で、存在しない場合は NoImageID になります。
type GenerationRequest struct {
	ImageData       []byte
	Style           string
	PreviousImageID string
}

// GenerationResponse は API から返される構造化レスポンスです。
type GenerationResponse struct {
	Code     int    `json:"code"`
	ImageID  string `json:"image_id,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Message  string `json:"msg,omitempty"`
}

// Succeeded は code が 200 かつ image_url が空でない場合に true を返します。
// HTTP 200 で返ってきても、この条件を満たさなければ論理的な失敗として扱います。
func (r *GenerationResponse) Succeeded() bool {
	return r != nil && r.Code == APICodeOK && r.ImageURL != ""
}

// Preview はプレビュー枠に収まるよう縮小された画像と、元画像のメタデータです。
type Preview struct {
	Image  image.Image
	Width  int // 元画像の幅
	Height int // 元画像の高さ
	Format string
}

// Upload はユーザーが選択した元画像です。Data は読み込んだままのバイト列です。
type Upload struct {
	Name    string
	Data    []byte
	Preview *Preview
}
