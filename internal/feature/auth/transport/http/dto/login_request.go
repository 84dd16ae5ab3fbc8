// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "time"

// CredentialsReq は /api/auth/login と /api/auth/token のリクエストボディを表します。
type CredentialsReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenRes はトークン発行成功時のレスポンスです。expiration はRFC 3339で出力されます。
type TokenRes struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// ErrorRes はエラーレスポンスです。
type ErrorRes struct {
	Error string `json:"error"`
}
