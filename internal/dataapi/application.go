package dataapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/configuration"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/parser"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/repository"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/server"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/store"
)

const DefaultMaxItemsPerResponse = 1000

func StartUp(config configuration.ApiConfiguration) (func(), *sync.WaitGroup) {
	wg := &sync.WaitGroup{}
	wg.Add(1)

	client, err := store.NewCosmosClient(store.CosmosConfig{
		Endpoint:           config.Cosmos.Endpoint,
		Key:                config.Cosmos.Key,
		Database:           config.Cosmos.Database,
		Collection:         config.Cosmos.Collection,
		PreferredLocations: config.Cosmos.PreferredLocations,
	})
	if err != nil {
		panic(err)
	}

	counts, err := repository.NewCountCache(config.CountCacheSize)
	if err != nil {
		panic(err)
	}

	maxItems := config.MaxItemsPerResponse
	if maxItems <= 0 {
		maxItems = DefaultMaxItemsPerResponse
	}

	engine := repository.NewEngine(client, counts, config.Environment, maxItems)
	requestParser := parser.New(func() string {
		return time.Now().UTC().Format("2006-01-02")
	})

	mux := http.NewServeMux()
	mux.Handle("/v1/data", server.New(engine, requestParser))

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.HttpPort),
		Handler: mux,
	}

	go func() {
		defer log.Println("Stopping server.")

		log.Printf("Listening on %d", config.HttpPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to serve: %v", err)
		}

		wg.Done()
	}()

	stop := func() {
		if err := httpServer.Shutdown(context.Background()); err != nil {
			log.Errorf("failed to shut down server: %v", err)
		}
	}

	return stop, wg
}
