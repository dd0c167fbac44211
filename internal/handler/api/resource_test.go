//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

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

type ResourceHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockResourceCommands
	mockQueries  *queriesmock.MockResourceQueries
}

func (s *ResourceHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockResourceCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockResourceQueries(s.mockCtrl)
	h := api.NewResourceHandler(s.mockCommands, s.mockQueries)

	s.router, _ = newAuthedRouter(s.mockCtrl)
	s.router.GET("/kilns", h.List)
	s.router.POST("/kilns", h.Create)
	s.router.PUT("/kilns/:id/rate", h.ChangeRate)
}

func (s *ResourceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestResourceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}

func bigKiln(rate string) *queries.ResourceView {
	created := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	return &queries.ResourceView{
		ID:           1,
		Name:         "Big kiln",
		StandardRate: decimal.RequireFromString(rate),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

// ================================================================================
// TestList
// ================================================================================

func (s *ResourceHandlerTestSuite) TestList() {
	s.Run("success: lists kilns with two-decimal rates and unix timestamps", func() {
		s.mockQueries.EXPECT().List(gomock.Any()).
			Return([]queries.ResourceView{*bigKiln("10"), {ID: 2, Name: "Test kiln", StandardRate: decimal.RequireFromString("4.5")}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/kilns", nil, memberToken)

		var res []resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Require().Len(res, 2)
		s.Equal("10.00", res[0].StandardRate)
		s.Equal(time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC).Unix(), res[0].CreatedAt)
		s.Equal("4.50", res[1].StandardRate)
	})
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *ResourceHandlerTestSuite) TestCreate() {
	url := "/kilns"
	reqBody := map[string]any{"name": "Big kiln", "standard_rate": "10.00"}

	s.Run("success: returns 201 with the created kiln", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), admin, "Big kiln", decimalEq("10")).
			Return(bigKiln("10"), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, adminToken)

		var res resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &res)
		s.Equal(int64(1), res.ID)
		s.Equal("Big kiln", res.Name)
	})

	binding := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{name: "missing name", mutate: testutil.Field("name", nil)},
		{name: "empty name", mutate: testutil.Field("name", "")},
		{name: "name over 100 chars", mutate: testutil.Field("name", strings.Repeat("k", 101))},
		{name: "missing rate", mutate: testutil.Field("standard_rate", nil)},
		{name: "rate not a number", mutate: testutil.Field("standard_rate", "ten")},
	}
	for _, tc := range binding {
		s.Run("error: 400 for "+tc.name, func() {
			body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, adminToken)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		})
	}

	s.Run("error: 400 names the field for a negative rate", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), admin, "Big kiln", decimalEq("-1")).
			Return(nil, errs.NewValidationError("standard_rate", errs.ErrDomainValidation)).Times(1)

		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("standard_rate", "-1"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, adminToken)

		var res struct {
			Detail map[string]string `json:"detail"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusBadRequest, &res)
		s.Equal("standard_rate", res.Detail["field"])
	})

	s.Run("error: 403 without the override capability", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), anna, "Big kiln", gomock.Any()).
			Return(nil, errs.ErrCapabilityRequired).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, memberToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("error: 409 for a name already in use", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), admin, "Big kiln", gomock.Any()).
			Return(nil, errs.ErrResourceNameTaken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "kiln name already in use")
	})
}

// ================================================================================
// TestChangeRate
// ================================================================================

func (s *ResourceHandlerTestSuite) TestChangeRate() {
	reqBody := map[string]any{"standard_rate": "12.5"}

	s.Run("success: returns the kiln at its new rate", func() {
		s.mockCommands.EXPECT().ChangeRate(gomock.Any(), admin, int64(1), decimalEq("12.50")).
			Return(bigKiln("12.5"), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/kilns/1/rate", reqBody, adminToken)

		var res resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &res)
		s.Equal("12.50", res.StandardRate)
	})

	s.Run("error: 400 for a non-numeric id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/kilns/big/rate", reqBody, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid kiln id")
	})

	s.Run("error: 400 without a rate", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/kilns/1/rate", map[string]any{}, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 404 for an unknown kiln", func() {
		s.mockCommands.EXPECT().ChangeRate(gomock.Any(), admin, int64(99), gomock.Any()).
			Return(nil, errs.ErrResourceNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/kilns/99/rate", reqBody, adminToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "kiln not found")
	})
}
