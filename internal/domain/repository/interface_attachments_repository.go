package repository

import (
	"context"

	"CensusMap-App/internal/domain/model"
)

// AttachmentsRepository 添付メディアレコードのストアへのインターフェース
type AttachmentsRepository interface {
	// ListByOwner 指定オーナーIDの添付レコードを作成日時の昇順で取得
	ListByOwner(ctx context.Context, ownerID string) ([]model.Attachment, error)

	// GetByOwnerAndType 指定オーナーID・種別の添付レコードを取得
	// 重複がある場合は最後に作成されたものを返し、存在しない場合は nil を返す
	GetByOwnerAndType(ctx context.Context, ownerID string, attachmentType model.AttachmentType) (*model.Attachment, error)
}

// MediaStorageRepository 署名付きURLを発行するBLOBストアへのインターフェース
type MediaStorageRepository interface {
	// CreateSignedURL オブジェクトキーに対する時間制限付きの署名付きURLを発行
	CreateSignedURL(storageKey string) (string, error)
}
