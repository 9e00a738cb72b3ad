package model

import "errors"

// ErrNotFound 指定されたIDまたは種別に一致するデータが存在しない
var ErrNotFound = errors.New("対象のデータが見つかりません")

// ErrInvalidClusterID クラスタIDの形式が正しくない（クエリ実行前に検出する）
var ErrInvalidClusterID = errors.New("クラスタIDの形式が正しくありません")
