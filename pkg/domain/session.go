package domain

// SessionState はアプリケーション実行中のみ保持されるセッション状態です。
// 永続化はしません。
type SessionState struct {
	CurrentImageID    string
	GeneratedImageURL string
	InFlight          bool
	SaveEnabled       bool
}

// PreviousImageID は次のリクエストに載せる image_id を返します。
func (s SessionState) PreviousImageID() string {
	if s.CurrentImageID == "" {
		return NoImageID
	}
	return s.CurrentImageID
}
