// Package response writes JSON error bodies from apperr values.
package response

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"planning_backend/internal/platform/apperr"
	"planning_backend/internal/platform/logger"
)

// Body is the error envelope returned by every non-auth endpoint.
type Body struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// Error maps err to its HTTP status and public message and aborts the request.
// Errors that are not *apperr.Error are treated as internal and never echoed.
func Error(c *gin.Context, logg *logger.Logger, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := apperr.As(err)
	if typed == nil {
		typed = apperr.Wrap(apperr.CodeInternal, err, "unexpected error")
	}
	meta := apperr.MetadataFor(typed.Code())

	body := Body{Error: meta.PublicMessage}
	if meta.MessageAllowed && typed.Message() != "" {
		body.Error = typed.Message()
	}
	if meta.DetailsAllowed {
		body.Details = typed.Details()
	}

	if logg != nil {
		ctx := logg.WithFields(requestContext(c), map[string]any{
			"error_code":  string(typed.Code()),
			"error_chain": apperr.Chain(err),
			"status":      meta.HTTPStatus,
		})
		if meta.HTTPStatus >= 500 {
			if pg := apperr.PGFields(err); pg != nil {
				ctx = logg.WithFields(ctx, pg)
			}
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	c.AbortWithStatusJSON(meta.HTTPStatus, body)
}

func requestContext(c *gin.Context) context.Context {
	if c.Request != nil {
		return c.Request.Context()
	}
	return context.Background()
}
