package membership

import (
	"errors"
	"net/http"

	"foodgram/internal/logging"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// WriteError maps toggle errors onto the response envelope.
func WriteError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, ErrSelfReference):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", MsgSelfSubscribe,
			map[string][]string{"errors": {MsgSelfSubscribe}})
	case errors.Is(err, ErrAlreadyExists):
		response.Error(c, http.StatusBadRequest, "ALREADY_EXISTS", MsgAlreadyExists)
	case errors.Is(err, ErrNotExisting):
		response.Error(c, http.StatusBadRequest, "NOT_EXISTING", MsgNotExisting)
	case errors.Is(err, ErrTargetNotFound):
		response.NotFound(c, notFoundMessage)
	default:
		logging.Error().Err(err).Str("path", c.FullPath()).Str("request_id", c.GetString("request_id")).Msg("membership request failed")
		response.Internal(c)
	}
}
