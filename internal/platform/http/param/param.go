// Package param binds path parameters with the OpenAPI simple style.
package param

import (
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"planning_backend/internal/platform/apperr"
)

// PathID binds the named path parameter as a positive integer id.
func PathID(c *gin.Context, name string) (uint, error) {
	var id uint
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id == 0 {
		return 0, apperr.Wrap(apperr.CodeValidation, err, "invalid path parameter").
			WithDetails(map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}
