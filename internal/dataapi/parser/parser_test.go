package parser

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
)

func parse(t *testing.T, target string) (*model.Request, error) {
	p := New(func() string { return "2020-11-10" })
	return p.Parse(httptest.NewRequest(http.MethodGet, target, nil))
}

func TestParse_FiltersBecomeClauseAndParameters(t *testing.T) {
	request, err := parse(t, "/v1/data?filters=areaType=nation;areaName=england")
	require.NoError(t, err)

	assert.Equal(t,
		"c.seriesDate = @seriesDate AND c.areaType = @areaType AND c.areaName = @areaName",
		request.Filter.Clause)
	assert.Equal(t, model.Parameters{
		{Name: "@areaType", Value: "nation"},
		{Name: "@areaName", Value: "england"},
	}, request.Filter.Arguments)
	assert.Equal(t, "2020-11-10", request.SeriesDate)
}

func TestParse_Defaults(t *testing.T) {
	request, err := parse(t, "/v1/data")
	require.NoError(t, err)

	assert.Equal(t, "json", request.Format)
	assert.Nil(t, request.Page)
	assert.Empty(t, request.LatestBy)
	assert.Equal(t, DefaultStructure, request.Structure)
	assert.Equal(t, "c.seriesDate = @seriesDate", request.Filter.Clause)
}

func TestParse_PageNumber(t *testing.T) {
	request, err := parse(t, "/v1/data?page=3")
	require.NoError(t, err)
	require.NotNil(t, request.Page)
	assert.Equal(t, 3, *request.Page)
}

func TestParse_InvalidPageNumber(t *testing.T) {
	_, err := parse(t, "/v1/data?page=zero")
	assert.Error(t, err)

	_, err = parse(t, "/v1/data?page=0")
	assert.Error(t, err)
}

func TestParse_InvalidFormat(t *testing.T) {
	_, err := parse(t, "/v1/data?format=xml")
	assert.Error(t, err)
}

func TestParse_DuplicateFilterIsRejected(t *testing.T) {
	_, err := parse(t, "/v1/data?filters=areaType=nation;areaType=region")
	assert.Error(t, err)
}

func TestParse_MalformedFilterIsRejected(t *testing.T) {
	_, err := parse(t, "/v1/data?filters=areaType")
	assert.Error(t, err)
}

func TestParse_LatestByAndStructurePassThrough(t *testing.T) {
	request, err := parse(t, "/v1/data?latestBy=newCases&structure={'date':c.date}")
	require.NoError(t, err)

	assert.Equal(t, "newCases", request.LatestBy)
	assert.Equal(t, "{'date':c.date}", request.Structure)
}
