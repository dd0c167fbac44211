package api

import (
	"errors"
	"net/http"

	"kilnbook/internal/handler/httperr"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/usecase/settlement"

	"github.com/gin-gonic/gin"
)

var errUnauthenticated = errs.New("unauthenticated")

// abortWithUsecaseError maps use case errors onto HTTP statuses.
// Validation wins over the not-found sentinels it may wrap.
func abortWithUsecaseError(c *gin.Context, err error) {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		httperr.InvalidField(c, err, ve.Field, ve.Error())
	case errs.Is(err, errs.ErrCapabilityRequired):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Insufficient permissions", nil)
	case errs.Is(err, errs.ErrResourceNotFound),
		errs.Is(err, errs.ErrMemberNotFound),
		errs.Is(err, errs.ErrReservationNotFound),
		errs.Is(err, errs.ErrOverrideNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)
	case errs.Is(err, errs.ErrResourceNameTaken),
		errs.Is(err, errs.ErrSlotTaken),
		errs.Is(err, settlement.ErrRunInProgress),
		errs.Is(err, settlement.ErrLockHeld):
		httperr.AbortWithError(c, http.StatusConflict, err, err.Error(), nil)
	default:
		httperr.Internal(c, err)
	}
}

func abortUnauthenticated(c *gin.Context) {
	httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized", nil)
}
