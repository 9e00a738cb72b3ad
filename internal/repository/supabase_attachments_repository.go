package repository

import (
	"context"
	"encoding/json"
	"fmt"

	postgrest "github.com/supabase-community/postgrest-go"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
	"CensusMap-App/internal/infrastructure/database"
)

// createdAtAscending 作成日時の昇順指定
// postgrest-goのOrderはopts省略時に降順となるため、明示的に昇順を指定する
var createdAtAscending = postgrest.OrderOpts{Ascending: true}

type SupabaseAttachmentsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseAttachmentsRepository(client *database.SupabaseClient) repository.AttachmentsRepository {
	return &SupabaseAttachmentsRepository{
		client: client,
	}
}

// ListByOwner 指定オーナーIDの添付レコードを作成日時の昇順で取得する
// 昇順にしておくことで、同一 (owner, type) の重複は後勝ちでマージできる
func (r *SupabaseAttachmentsRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Attachment, error) {
	var attachments []model.Attachment
	data, count, err := r.client.GetClient().From("attachments").
		Select("*", "exact", false).
		Eq("owner_id", ownerID).
		Order("created_at", &createdAtAscending).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("添付データの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &attachments); err != nil {
		return nil, fmt.Errorf("添付データのJSONアンマーシャル失敗: %w", err)
	}

	return attachments, nil
}

// GetByOwnerAndType 指定オーナーID・種別の添付レコードを取得する
// 重複がある場合は最後に作成されたものを返し、存在しない場合は nil を返す
func (r *SupabaseAttachmentsRepository) GetByOwnerAndType(ctx context.Context, ownerID string, attachmentType model.AttachmentType) (*model.Attachment, error) {
	var attachments []model.Attachment
	data, count, err := r.client.GetClient().From("attachments").
		Select("*", "exact", false).
		Eq("owner_id", ownerID).
		Eq("type", string(attachmentType)).
		Order("created_at", &createdAtAscending).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("添付データの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &attachments); err != nil {
		return nil, fmt.Errorf("添付データのJSONアンマーシャル失敗: %w", err)
	}

	if len(attachments) == 0 {
		return nil, nil
	}

	return &attachments[len(attachments)-1], nil
}
