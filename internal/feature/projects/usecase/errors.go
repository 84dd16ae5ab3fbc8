package usecase

import "errors"

// ErrProjectNotFound はプロジェクトが存在しないか論理削除済みの場合に返されます。
var ErrProjectNotFound = errors.New("project not found")
