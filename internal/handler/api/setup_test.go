//go:build unit

package api_test

import (
	"errors"
	"fmt"

	"kilnbook/internal/domain/member"
	"kilnbook/internal/handler/middleware"
	usecasemock "kilnbook/internal/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

const (
	memberToken = "member-token"
	adminToken  = "admin-token"
	badToken    = "bad-token"

	annaID  int64 = 1
	adminID int64 = 9
)

var (
	anna  = member.NewActorContext(annaID)
	admin = member.NewActorContext(adminID, member.CapabilityOverride)
)

// newAuthedRouter returns a test engine behind the real auth middleware.
// memberToken authenticates Anna, adminToken an override holder, anything
// else is rejected by the validator.
func newAuthedRouter(ctrl *gomock.Controller) (*gin.Engine, *middleware.AuthMiddleware) {
	gin.SetMode(gin.TestMode)

	validator := usecasemock.NewMockTokenValidator(ctrl)
	validator.EXPECT().ValidateToken(memberToken).Return(anna, nil).AnyTimes()
	validator.EXPECT().ValidateToken(adminToken).Return(admin, nil).AnyTimes()
	validator.EXPECT().ValidateToken(badToken).Return(member.ActorContext{}, errors.New("token is expired")).AnyTimes()

	auth := middleware.NewAuthMiddleware(validator)
	r := gin.New()
	r.Use(auth.RequireAuth())
	return r, auth
}

type decimalMatcher struct{ want decimal.Decimal }

// decimalEq matches amounts by value, so "12.5" equals "12.50".
func decimalEq(s string) gomock.Matcher {
	return decimalMatcher{want: decimal.RequireFromString(s)}
}

func (m decimalMatcher) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalMatcher) String() string {
	return fmt.Sprintf("is decimal %s", m.want)
}
