package storage

import (
	"fmt"
	"os"

	storage_go "github.com/supabase-community/storage-go"

	"CensusMap-App/internal/domain/repository"
)

// SignedURLExpirySeconds 署名付きURLの有効期限（24時間）
const SignedURLExpirySeconds = 24 * 60 * 60

const defaultBucket = "survey-media"

// SupabaseStorage Supabase Storageに対する署名付きURL発行クライアント
type SupabaseStorage struct {
	client *storage_go.Client
	bucket string
}

// NewSupabaseStorage 新しいSupabaseStorageインスタンスを作成
// バケット名はSUPABASE_STORAGE_BUCKET環境変数で上書きできる
func NewSupabaseStorage(client *storage_go.Client) repository.MediaStorageRepository {
	bucket := os.Getenv("SUPABASE_STORAGE_BUCKET")
	if bucket == "" {
		bucket = defaultBucket
	}
	return &SupabaseStorage{
		client: client,
		bucket: bucket,
	}
}

// CreateSignedURL オブジェクトキーに対する時間制限付きの署名付きURLを発行する
func (s *SupabaseStorage) CreateSignedURL(storageKey string) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, storageKey, SignedURLExpirySeconds)
	if err != nil {
		return "", fmt.Errorf("署名付きURLの発行失敗 (key=%s): %w", storageKey, err)
	}
	return resp.SignedURL, nil
}
