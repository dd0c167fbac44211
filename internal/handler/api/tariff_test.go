//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"kilnbook/internal/handler/api"
	resdto "kilnbook/internal/handler/dto/response"
	commandsmock "kilnbook/internal/mock/commands"
	queriesmock "kilnbook/internal/mock/queries"
	"kilnbook/internal/pkg/errs"
	"kilnbook/internal/testutil"
	"kilnbook/internal/testutil/httptest"
	"kilnbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type TariffHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockTariffCommands
	mockQueries  *queriesmock.MockResourceQueries
}

func (s *TariffHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockTariffCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockResourceQueries(s.mockCtrl)
	h := api.NewTariffHandler(s.mockCommands, s.mockQueries)

	s.router, _ = newAuthedRouter(s.mockCtrl)
	s.router.GET("/tariffs", h.List)
	s.router.PUT("/tariffs", h.Set)
	s.router.DELETE("/tariffs/:member/:kiln", h.Remove)
}

func (s *TariffHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestTariffHandlerSuite(t *testing.T) {
	suite.Run(t, new(TariffHandlerTestSuite))
}

func (s *TariffHandlerTestSuite) TestList() {
	s.Run("success: lists overrides", func() {
		s.mockQueries.EXPECT().ListOverrides(gomock.Any(), admin).
			Return([]queries.OverrideView{{
				MemberID: 3, MemberName: "cor", ResourceID: 1, ResourceName: "Big kiln",
				Rate: decimal.RequireFromString("7.5"),
			}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/tariffs", nil, adminToken)

		var res []resdto.OverrideResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal([]resdto.OverrideResponse{{
			MemberID: 3, MemberName: "cor", ResourceID: 1, ResourceName: "Big kiln", Rate: "7.50",
		}}, res)
	})

	s.Run("error: 403 for a plain member", func() {
		s.mockQueries.EXPECT().ListOverrides(gomock.Any(), anna).
			Return(nil, errs.ErrCapabilityRequired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/tariffs", nil, memberToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}

func (s *TariffHandlerTestSuite) TestSet() {
	reqBody := map[string]any{"member_id": 3, "resource_id": 1, "rate": "7.50"}

	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().SetOverride(gomock.Any(), admin, int64(3), int64(1), decimalEq("7.5")).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/tariffs", reqBody, adminToken)
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	binding := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{name: "missing member", mutate: testutil.Field("member_id", nil)},
		{name: "zero member", mutate: testutil.Field("member_id", 0)},
		{name: "negative kiln", mutate: testutil.Field("resource_id", -1)},
		{name: "missing rate", mutate: testutil.Field("rate", nil)},
	}
	for _, tc := range binding {
		s.Run("error: 400 for "+tc.name, func() {
			body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/tariffs", body, adminToken)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		})
	}

	s.Run("error: 404 for an unknown member", func() {
		s.mockCommands.EXPECT().SetOverride(gomock.Any(), admin, int64(3), int64(1), gomock.Any()).
			Return(errs.ErrMemberNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/tariffs", reqBody, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "member not found")
	})

	s.Run("error: 403 for a plain member", func() {
		s.mockCommands.EXPECT().SetOverride(gomock.Any(), anna, int64(3), int64(1), gomock.Any()).
			Return(errs.ErrCapabilityRequired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/tariffs", reqBody, memberToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})
}

func (s *TariffHandlerTestSuite) TestRemove() {
	s.Run("success: returns 204", func() {
		s.mockCommands.EXPECT().RemoveOverride(gomock.Any(), admin, int64(3), int64(1)).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/tariffs/3/1", nil, adminToken)
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when no override exists", func() {
		s.mockCommands.EXPECT().RemoveOverride(gomock.Any(), admin, int64(3), int64(2)).
			Return(errs.ErrOverrideNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/tariffs/3/2", nil, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "tariff override not found")
	})

	s.Run("error: 400 for a non-numeric member", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/tariffs/cor/1", nil, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid member id")
	})

	s.Run("error: 400 for a non-numeric kiln", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/tariffs/3/big", nil, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid kiln id")
	})
}
