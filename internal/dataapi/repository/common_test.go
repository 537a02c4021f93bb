package repository

import (
	"net/url"
	"strings"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/parser"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/store"
)

const testSeriesDate = "2020-11-10"

func makeDocuments(n int) []interface{} {
	documents := make([]interface{}, n)
	for i := 0; i < n; i++ {
		documents[i] = map[string]interface{}{
			"date":     testSeriesDate,
			"areaName": "England",
			"index":    float64(i),
		}
	}
	return documents
}

// seriesStore answers the four query kinds from a fixed document slice.
func seriesStore(documents []interface{}) *store.InMemoryStore {
	return &store.InMemoryStore{
		Evaluate: func(text string, params model.Parameters, mode store.ExecutionMode) ([]interface{}, error) {
			switch {
			case strings.Contains(text, "COUNT(1)"):
				return []interface{}{float64(len(documents))}, nil
			case strings.Contains(text, "TOP 1 VALUE (1)"):
				if len(documents) == 0 {
					return nil, nil
				}
				return []interface{}{float64(1)}, nil
			case strings.Contains(text, "IS_DEFINED"):
				if len(documents) == 0 {
					return nil, nil
				}
				return documents[:1], nil
			default:
				return documents, nil
			}
		},
	}
}

func testEngine(client store.Client, maxItems int) *Engine {
	counts, err := NewCountCache(DefaultCountCacheSize)
	if err != nil {
		panic(err)
	}
	return NewEngine(client, counts, "PRODUCTION", maxItems)
}

func testRequest(method string, page *int, format string) *model.Request {
	requestURL, err := url.Parse("https://api.example.com/v1/data?filters=areaType=nation")
	if err != nil {
		panic(err)
	}
	return &model.Request{
		Method: method,
		URL:    requestURL,
		Filter: model.Filter{
			Clause:    "c.seriesDate = @seriesDate AND c.areaType = @areaType",
			Arguments: model.Parameters{{Name: "@areaType", Value: "nation"}},
		},
		Ordering:   parser.DefaultOrdering,
		Structure:  `{'date': c.date, 'areaName': c.areaName, 'index': c.index}`,
		Format:     format,
		Page:       page,
		SeriesDate: testSeriesDate,
	}
}

func intPointer(n int) *int {
	return &n
}
