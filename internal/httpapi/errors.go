package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerforge/datasynth/internal/generrors"
)

// statusFor maps a generrors.PipelineError's code prefix onto the HTTP
// status a caller should see; anything unrecognized is a 500.
func statusFor(err error) int {
	var pe *generrors.PipelineError
	if !errors.As(err, &pe) {
		return http.StatusInternalServerError
	}
	switch pe.Code {
	case generrors.ErrCodeInvalidArgument, generrors.ErrCodeEmptyPool,
		generrors.ErrCodeConfigInvalid, generrors.ErrCodeConfigMissing, generrors.ErrCodeConfigConflict:
		return http.StatusBadRequest
	case generrors.ErrCodeResourceExhausted, generrors.ErrCodeResourceDegraded:
		return http.StatusServiceUnavailable
	case generrors.ErrCodeStreamClosed:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
