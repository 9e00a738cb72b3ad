package model

import "time"

// AttachmentType 添付メディアの種別（ワイヤ上の固定enum）
type AttachmentType string

const (
	AttachmentBuildingImage    AttachmentType = "building_image"
	AttachmentBuildingSelfie   AttachmentType = "building_selfie"
	AttachmentFamilyHeadImage  AttachmentType = "family_head_image"
	AttachmentFamilyHeadSelfie AttachmentType = "family_head_selfie"
	AttachmentBusinessImage    AttachmentType = "business_image"
	AttachmentBusinessSelfie   AttachmentType = "business_selfie"
	AttachmentAudioMonitoring  AttachmentType = "audio_monitoring"
)

// CanonicalField 添付種別に対応する出力フィールド名を返す
// 種別→フィールド名は固定テーブルであり、未定義の種別は無視する（エラーにしない）
func (t AttachmentType) CanonicalField() (string, bool) {
	switch t {
	case AttachmentBuildingImage:
		return "image", true
	case AttachmentBuildingSelfie:
		return "operatorSelfie", true
	case AttachmentFamilyHeadImage:
		return "familyHeadImage", true
	case AttachmentFamilyHeadSelfie:
		return "familyHeadSelfie", true
	case AttachmentBusinessImage:
		return "businessImage", true
	case AttachmentBusinessSelfie:
		return "businessSelfie", true
	case AttachmentAudioMonitoring:
		return "audioRecording", true
	}
	return "", false
}

// Attachment 調査提出時に作成される添付メディアのレコード（このコアでは読み取りのみ）
// 同一の (owner_id, type) が複数存在する場合はあとに作成されたものが有効
type Attachment struct {
	ID         string         `json:"id" db:"id"`
	OwnerID    string         `json:"owner_id" db:"owner_id"`       // 建物・世帯・事業所のID
	Type       AttachmentType `json:"type" db:"type"`               // 添付種別
	StorageKey string         `json:"storage_key" db:"storage_key"` // BLOBストア上のオブジェクトキー
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}
