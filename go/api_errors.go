package marketplaceserver

import (
	"github.com/gin-gonic/gin"

	apierrors "github.com/Apurer/go-marketplace-api/internal/shared/errors"
)

var responder = apierrors.NewFailureResponder("")

// respondFailure renders classified failures as RFC 7807 problems; anything else is a 500.
func respondFailure(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBindError reports a malformed request body.
func respondBindError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.BadRequest(c, err.Error())
}
