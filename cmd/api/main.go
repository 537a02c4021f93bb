package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/common"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/configuration"
	"github.com/publichealthengland/coronavirus-dashboard-api-v1/internal/dataapi/metrics"
)

const CustomConfigLocation string = "config"

func init() {
	pflag.String(CustomConfigLocation, "", "Fully qualified path to application configuration file")
	pflag.Parse()
}

func main() {
	common.ConfigureLogging()
	common.BindCommandlineArguments()

	var config configuration.ApiConfiguration
	userSpecifiedConfig := viper.GetString(CustomConfigLocation)
	common.LoadConfig(&config, "./config/api", userSpecifiedConfig)

	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

	metrics.ExposeApiMetrics()
	shutdownMetricServer := common.ServeMetrics(config.MetricsPort)
	defer shutdownMetricServer()

	shutdown, wg := dataapi.StartUp(config)
	go func() {
		<-shutdownChannel
		shutdown()
	}()
	wg.Wait()
}
