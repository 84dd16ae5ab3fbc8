// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"planning_backend/internal/feature/auth/domain/entity"
	"planning_backend/internal/feature/auth/transport/http/dto"
	"planning_backend/internal/feature/auth/usecase"
	jwtmw "planning_backend/internal/platform/jwt"
	"planning_backend/internal/platform/logger"
)

// 公開するエラーメッセージ。内部エラーの内容はレスポンスに含めません。
const (
	MsgSignInFailed       = "Cannot authenticate user."
	MsgInvalidCredentials = "Invalid credentials."
	MsgTokenFailed        = "Failed to generate token"
	msgInvalidRequest     = "invalid request"
)

// SessionKey はセッションCookie内でセッションIDを保持するキーです。
const SessionKey = "sid"

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Login(ctx context.Context, username, password string, client usecase.ClientInfo) (*entity.Session, error)
	CreateToken(ctx context.Context, username, password string) (jwtmw.Token, error)
	Authenticate(ctx context.Context, sessionID string) (*entity.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
	log  *logger.Logger
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) logCtx(c *gin.Context, username string) context.Context {
	return h.log.WithFields(c.Request.Context(), map[string]any{
		"attempted_username": username,
		"remote_addr":        c.ClientIP(),
	})
}

// Login は対話的ログインAPIエンドポイントを処理します。
// - 成功時はセッションCookieを設定し、空のボディで200を返却
// - 失敗時は理由に関わらず400と固定メッセージを返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn(h.log.WithField(c.Request.Context(), "remote_addr", c.ClientIP()), "login validation failed")
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}

	ctx := h.logCtx(c, req.Username)
	session, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, usecase.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		h.log.Warn(h.log.WithField(ctx, "error", err.Error()), "login failed")
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: MsgSignInFailed})
		return
	}

	s := sessions.Default(c)
	s.Set(SessionKey, session.ID)
	if err := s.Save(); err != nil {
		h.log.Error(ctx, "saving session cookie failed", err)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: MsgSignInFailed})
		return
	}

	h.log.Info(ctx, "user login successful")
	c.Status(http.StatusOK)
}

// Token はトークン発行APIエンドポイントを処理します。
// - 成功時は {token, expiration} で200を返却
// - 資格情報の不一致は400 "Invalid credentials."、それ以外の失敗は400 "Failed to generate token"
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.CredentialsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn(h.log.WithField(c.Request.Context(), "remote_addr", c.ClientIP()), "token validation failed")
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}

	ctx := h.logCtx(c, req.Username)
	token, err := h.auth.CreateToken(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.log.Warn(ctx, "token request rejected")
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: MsgInvalidCredentials})
			return
		}
		h.log.Error(ctx, "token generation failed", err)
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: MsgTokenFailed})
		return
	}

	h.log.Info(ctx, "token issued")
	c.JSON(http.StatusOK, dto.TokenRes{Token: token.Value, Expiration: token.Expiration})
}

// Logout は現在のセッションを終了し、Cookieを削除します。
func (h *AuthHandler) Logout(c *gin.Context) {
	s := sessions.Default(c)
	if id, ok := s.Get(SessionKey).(string); ok && id != "" {
		if err := h.auth.Logout(c.Request.Context(), id); err != nil {
			h.log.Error(c.Request.Context(), "logout failed", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal server error"})
			return
		}
	}
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := s.Save(); err != nil {
		h.log.Error(c.Request.Context(), "clearing session cookie failed", err)
	}
	c.Status(http.StatusNoContent)
}

// Authenticate はセッションCookieから呼び出し元を解決します（jwtmw.Authenticator）。
func (h *AuthHandler) Authenticate(c *gin.Context) (string, bool) {
	id, ok := sessions.Default(c).Get(SessionKey).(string)
	if !ok || id == "" {
		return "", false
	}
	session, err := h.auth.Authenticate(c.Request.Context(), id)
	if err != nil {
		return "", false
	}
	return session.Username, true
}

var _ jwtmw.Authenticator = (*AuthHandler)(nil)
