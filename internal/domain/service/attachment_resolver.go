package service

import (
	"context"
	"log"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
)

// AttachmentResolver 添付メディアを署名付きURLへ解決するサービス
// URL発行の失敗は呼び出し元へ伝播させず、該当フィールドを省略して処理を継続する
type AttachmentResolver interface {
	// Resolve 指定オーナー・種別の添付を署名付きURLに解決する（存在しない場合は空文字）
	Resolve(ctx context.Context, ownerID string, attachmentType model.AttachmentType) string

	// ResolveAll 指定オーナーの全添付を正規フィールド名→署名付きURLのマップに解決する
	ResolveAll(ctx context.Context, ownerID string) map[string]string
}

type attachmentResolverImpl struct {
	attachmentsRepo repository.AttachmentsRepository
	mediaStorage    repository.MediaStorageRepository
}

// NewAttachmentResolver AttachmentResolverの新しいインスタンスを作成
func NewAttachmentResolver(attachmentsRepo repository.AttachmentsRepository, mediaStorage repository.MediaStorageRepository) AttachmentResolver {
	return &attachmentResolverImpl{
		attachmentsRepo: attachmentsRepo,
		mediaStorage:    mediaStorage,
	}
}

// Resolve 指定オーナー・種別の添付を署名付きURLに解決する
func (s *attachmentResolverImpl) Resolve(ctx context.Context, ownerID string, attachmentType model.AttachmentType) string {
	if _, ok := attachmentType.CanonicalField(); !ok {
		return "" // 未定義の種別は無視する
	}

	attachment, err := s.attachmentsRepo.GetByOwnerAndType(ctx, ownerID, attachmentType)
	if err != nil {
		log.Printf("⚠️ 添付レコードの取得失敗 (owner=%s, type=%s): %v", ownerID, attachmentType, err)
		return ""
	}
	if attachment == nil {
		return ""
	}

	url, err := s.mediaStorage.CreateSignedURL(attachment.StorageKey)
	if err != nil {
		log.Printf("⚠️ 署名付きURLの発行失敗 (owner=%s, type=%s): %v", ownerID, attachmentType, err)
		return ""
	}
	return url
}

// ResolveAll 指定オーナーの全添付を解決する
// 同一の (owner, type) が重複する場合は作成順の後勝ちとなる
func (s *attachmentResolverImpl) ResolveAll(ctx context.Context, ownerID string) map[string]string {
	urls := make(map[string]string)

	attachments, err := s.attachmentsRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("⚠️ 添付一覧の取得失敗 (owner=%s): %v", ownerID, err)
		return urls
	}

	for _, attachment := range attachments {
		field, ok := attachment.Type.CanonicalField()
		if !ok {
			continue // 未定義の種別は無視する
		}

		url, err := s.mediaStorage.CreateSignedURL(attachment.StorageKey)
		if err != nil {
			// 1件の失敗で建物全体の集約を失敗させない
			log.Printf("⚠️ 署名付きURLの発行失敗 (owner=%s, type=%s): %v", ownerID, attachment.Type, err)
			continue
		}
		urls[field] = url
	}

	return urls
}
