package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"
	"github.com/pkg/errors"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/model"
)

type CosmosConfig struct {
	Endpoint           string
	Key                string
	Database           string
	Collection         string
	PreferredLocations []string
}

// CosmosClient executes queries against an Azure Cosmos DB container.
type CosmosClient struct {
	container   *azcosmos.ContainerClient
	contentPath string
}

func NewCosmosClient(config CosmosConfig) (*CosmosClient, error) {
	credential, err := azcosmos.NewKeyCredential(config.Key)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	client, err := azcosmos.NewClientWithKey(config.Endpoint, credential, &azcosmos.ClientOptions{
		PreferredRegions: config.PreferredLocations,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	container, err := client.NewContainer(config.Database, config.Collection)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &CosmosClient{
		container:   container,
		contentPath: fmt.Sprintf("dbs/%s/colls/%s", config.Database, config.Collection),
	}, nil
}

func (c *CosmosClient) Query(
	text string,
	params model.Parameters,
	mode ExecutionMode,
	maxItemsPerPage int,
	continuation string,
) Cursor {
	queryParams := make([]azcosmos.QueryParameter, len(params))
	for i, param := range params {
		queryParams[i] = azcosmos.QueryParameter{Name: param.Name, Value: param.Value}
	}

	options := &azcosmos.QueryOptions{
		QueryParameters: queryParams,
		PageSizeHint:    int32(maxItemsPerPage),
	}
	if continuation != "" {
		options.ContinuationToken = &continuation
	}

	// An empty partition key makes the SDK issue a cross-partition query.
	partitionKey := azcosmos.PartitionKey{}
	if !mode.CrossPartition {
		partitionKey = azcosmos.NewPartitionKeyString(mode.PartitionKey)
	}

	return &cosmosCursor{
		pager:       c.container.NewQueryItemsPager(text, partitionKey, options),
		contentPath: c.contentPath,
	}
}

type cosmosCursor struct {
	pager       *runtime.Pager[azcosmos.QueryItemsResponse]
	contentPath string
}

func (c *cosmosCursor) More() bool {
	return c.pager.More()
}

func (c *cosmosCursor) NextPage(ctx context.Context) (Page, error) {
	response, err := c.pager.NextPage(ctx)
	if err != nil {
		return Page{}, errors.WithStack(err)
	}

	items := make([]interface{}, 0, len(response.Items))
	for _, raw := range response.Items {
		var item interface{}
		if err := json.Unmarshal(raw, &item); err != nil {
			return Page{}, errors.WithMessagef(ErrMalformedResponse, "undecodable store item: %v", err)
		}
		items = append(items, item)
	}

	return Page{
		Items: items,
		Metadata: Metadata{
			RequestCharge: float64(response.RequestCharge),
			ItemCount:     len(items),
			ContentPath:   c.contentPath,
		},
	}, nil
}
