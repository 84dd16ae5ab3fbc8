package usecase

import "errors"

// ErrEmployeeNotFound は従業員が存在しないか論理削除済みの場合に返されます。
var ErrEmployeeNotFound = errors.New("employee not found")
