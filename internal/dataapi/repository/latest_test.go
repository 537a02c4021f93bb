package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/store"
)

func TestLatestValue_ExtractsTheDateField(t *testing.T) {
	client := seriesStore(makeDocuments(3))
	filter := model.Filter{Clause: "c.seriesDate = @seriesDate"}

	value, err := latestValue(context.Background(), client, filter, "newCases",
		store.ExecutionMode{PartitionKey: testSeriesDate}, 10)
	require.NoError(t, err)
	assert.Equal(t, testSeriesDate, value)

	queries := client.Queries()
	require.Equal(t, 1, len(queries))
	assert.Contains(t, queries[0].Text, "IS_DEFINED(c.newCases)")
	assert.Contains(t, queries[0].Text, "ORDER BY c.releaseTimestamp DESC")
}

func TestLatestValue_NoRowsIsNotAvailable(t *testing.T) {
	client := seriesStore(nil)
	filter := model.Filter{Clause: "c.seriesDate = @seriesDate"}

	_, err := latestValue(context.Background(), client, filter, "newCases",
		store.ExecutionMode{PartitionKey: testSeriesDate}, 10)
	assert.True(t, errors.Is(err, model.ErrNotAvailable))
}

func TestLatestValue_MissingFieldIsNotAvailable(t *testing.T) {
	client := &store.InMemoryStore{
		Evaluate: func(text string, params model.Parameters, mode store.ExecutionMode) ([]interface{}, error) {
			return []interface{}{map[string]interface{}{"somethingElse": "x"}}, nil
		},
	}
	filter := model.Filter{Clause: "c.seriesDate = @seriesDate"}

	_, err := latestValue(context.Background(), client, filter, "newCases",
		store.ExecutionMode{PartitionKey: testSeriesDate}, 10)
	assert.True(t, errors.Is(err, model.ErrNotAvailable))
}

func TestLatestValue_StoreOutagePropagates(t *testing.T) {
	client := &store.InMemoryStore{
		Evaluate: func(text string, params model.Parameters, mode store.ExecutionMode) ([]interface{}, error) {
			return nil, errors.New("service unavailable (503)")
		},
	}
	filter := model.Filter{Clause: "c.seriesDate = @seriesDate"}

	_, err := latestValue(context.Background(), client, filter, "newCases",
		store.ExecutionMode{PartitionKey: testSeriesDate}, 10)
	require.Error(t, err)
	assert.False(t, errors.Is(err, model.ErrNotAvailable))
}

func TestInjectLatestClause_AppendsEqualityAndParameter(t *testing.T) {
	filter := model.Filter{
		Clause:    "c.seriesDate = @seriesDate",
		Arguments: model.Parameters{{Name: "@seriesDate", Value: testSeriesDate}},
	}

	injected := injectLatestClause(filter, "2020-11-09")

	name := latestParamName()
	assert.Equal(t, "c.seriesDate = @seriesDate AND c.date = "+name, injected.Clause)
	require.Equal(t, 2, len(injected.Arguments))
	assert.Equal(t, model.Parameter{Name: name, Value: "2020-11-09"}, injected.Arguments[1])

	// The original filter is left untouched.
	assert.Equal(t, 1, len(filter.Arguments))
}

func TestLatestParamName_NeverCollidesWithCallerParameters(t *testing.T) {
	name := latestParamName()

	// Adversarial caller parameter sets built around the stem.
	callers := []model.Parameters{
		{{Name: "@date", Value: "x"}},
		{{Name: "@date0", Value: "x"}, {Name: "@datea", Value: "x"}},
		{{Name: "@seriesDate", Value: "x"}, {Name: "@dateffffffffffff", Value: "x"}},
	}
	for _, params := range callers {
		assert.False(t, params.Contains(name))
	}

	assert.True(t, strings.HasPrefix(name, "@date"))
	// 6-byte digest renders as 12 hex characters.
	assert.Equal(t, len("@date")+12, len(name))

	// Deterministic across calls.
	assert.Equal(t, name, latestParamName())
}
