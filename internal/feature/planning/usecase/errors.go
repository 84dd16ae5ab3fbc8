package usecase

import "errors"

// ErrPlanNotFound は計画が存在しないか論理削除済みの場合に返されます。
var ErrPlanNotFound = errors.New("plan not found")
