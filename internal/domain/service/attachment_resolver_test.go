package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"CensusMap-App/internal/domain/model"
)

// stubAttachmentsRepository テスト用の添付レコードストア
type stubAttachmentsRepository struct {
	attachments map[string][]model.Attachment
	listErr     error
}

func (s *stubAttachmentsRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Attachment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.attachments[ownerID], nil
}

func (s *stubAttachmentsRepository) GetByOwnerAndType(ctx context.Context, ownerID string, attachmentType model.AttachmentType) (*model.Attachment, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var found *model.Attachment
	for i := range s.attachments[ownerID] {
		if s.attachments[ownerID][i].Type == attachmentType {
			found = &s.attachments[ownerID][i]
		}
	}
	return found, nil
}

// stubMediaStorage テスト用の署名付きURL発行スタブ（指定キーのみ失敗させられる）
type stubMediaStorage struct {
	failKeys map[string]bool
}

func (s *stubMediaStorage) CreateSignedURL(storageKey string) (string, error) {
	if s.failKeys[storageKey] {
		return "", fmt.Errorf("storage unavailable for %s", storageKey)
	}
	return "https://storage.example.com/sign/" + storageKey, nil
}

func attachmentOf(ownerID string, attachmentType model.AttachmentType, storageKey string, createdAt time.Time) model.Attachment {
	return model.Attachment{
		ID:         ownerID + "/" + string(attachmentType) + "/" + storageKey,
		OwnerID:    ownerID,
		Type:       attachmentType,
		StorageKey: storageKey,
		CreatedAt:  createdAt,
	}
}

func TestResolveAllFieldMapping(t *testing.T) {
	now := time.Now()
	repo := &stubAttachmentsRepository{
		attachments: map[string][]model.Attachment{
			"building-1": {
				attachmentOf("building-1", model.AttachmentBuildingImage, "b1/front.jpg", now),
				attachmentOf("building-1", model.AttachmentBuildingSelfie, "b1/selfie.jpg", now),
				attachmentOf("building-1", model.AttachmentAudioMonitoring, "b1/audio.m4a", now),
			},
		},
	}
	resolver := NewAttachmentResolver(repo, &stubMediaStorage{})

	urls := resolver.ResolveAll(context.Background(), "building-1")

	assert.Equal(t, map[string]string{
		"image":          "https://storage.example.com/sign/b1/front.jpg",
		"operatorSelfie": "https://storage.example.com/sign/b1/selfie.jpg",
		"audioRecording": "https://storage.example.com/sign/b1/audio.m4a",
	}, urls)
}

func TestResolveAllUnknownTypeIgnored(t *testing.T) {
	now := time.Now()
	repo := &stubAttachmentsRepository{
		attachments: map[string][]model.Attachment{
			"building-1": {
				attachmentOf("building-1", model.AttachmentBuildingImage, "b1/front.jpg", now),
				attachmentOf("building-1", model.AttachmentType("floor_plan"), "b1/plan.pdf", now),
			},
		},
	}
	resolver := NewAttachmentResolver(repo, &stubMediaStorage{})

	urls := resolver.ResolveAll(context.Background(), "building-1")

	// 未定義の種別はエラーにならず、単に出力に現れない
	assert.Len(t, urls, 1)
	assert.Contains(t, urls, "image")
}

func TestResolveAllFailureIsolation(t *testing.T) {
	// 1件のURL発行失敗は他のフィールドの解決に影響しない
	now := time.Now()
	repo := &stubAttachmentsRepository{
		attachments: map[string][]model.Attachment{
			"building-1": {
				attachmentOf("building-1", model.AttachmentBuildingImage, "b1/front.jpg", now),
				attachmentOf("building-1", model.AttachmentBuildingSelfie, "b1/selfie.jpg", now),
				attachmentOf("building-1", model.AttachmentAudioMonitoring, "b1/audio.m4a", now),
			},
		},
	}
	mediaStorage := &stubMediaStorage{failKeys: map[string]bool{"b1/selfie.jpg": true}}
	resolver := NewAttachmentResolver(repo, mediaStorage)

	urls := resolver.ResolveAll(context.Background(), "building-1")

	assert.Len(t, urls, 2)
	assert.Contains(t, urls, "image")
	assert.Contains(t, urls, "audioRecording")
	assert.NotContains(t, urls, "operatorSelfie")
}

func TestResolveAllLastWriteWins(t *testing.T) {
	// 同一 (owner, type) の重複は作成順の後勝ち
	base := time.Now()
	repo := &stubAttachmentsRepository{
		attachments: map[string][]model.Attachment{
			"building-1": {
				attachmentOf("building-1", model.AttachmentBuildingImage, "b1/old.jpg", base),
				attachmentOf("building-1", model.AttachmentBuildingImage, "b1/new.jpg", base.Add(time.Hour)),
			},
		},
	}
	resolver := NewAttachmentResolver(repo, &stubMediaStorage{})

	urls := resolver.ResolveAll(context.Background(), "building-1")

	assert.Equal(t, "https://storage.example.com/sign/b1/new.jpg", urls["image"])
}

func TestResolveAllRepositoryFailure(t *testing.T) {
	repo := &stubAttachmentsRepository{listErr: fmt.Errorf("connection refused")}
	resolver := NewAttachmentResolver(repo, &stubMediaStorage{})

	// ストア障害でも空マップを返し、呼び出し元には伝播させない
	urls := resolver.ResolveAll(context.Background(), "building-1")
	assert.Empty(t, urls)
}

func TestResolveSingle(t *testing.T) {
	now := time.Now()
	repo := &stubAttachmentsRepository{
		attachments: map[string][]model.Attachment{
			"household-1": {
				attachmentOf("household-1", model.AttachmentFamilyHeadImage, "h1/head.jpg", now),
			},
		},
	}
	resolver := NewAttachmentResolver(repo, &stubMediaStorage{})

	t.Run("存在する添付はURLに解決される", func(t *testing.T) {
		url := resolver.Resolve(context.Background(), "household-1", model.AttachmentFamilyHeadImage)
		assert.Equal(t, "https://storage.example.com/sign/h1/head.jpg", url)
	})

	t.Run("存在しない添付は空文字を返す", func(t *testing.T) {
		url := resolver.Resolve(context.Background(), "household-1", model.AttachmentFamilyHeadSelfie)
		assert.Empty(t, url)
	})

	t.Run("未定義の種別は空文字を返す", func(t *testing.T) {
		url := resolver.Resolve(context.Background(), "household-1", model.AttachmentType("floor_plan"))
		assert.Empty(t, url)
	})
}
