package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"topicsearch.com/oqs/api"
	"topicsearch.com/oqs/logger"
	"topicsearch.com/oqs/pipeline"
	"topicsearch.com/oqs/types"
	"topicsearch.com/oqs/worker"
)

type Config struct {
	ConfigPath    string `envconfig:"OQS_CONFIG_PATH" required:"true"`
	DirPath       string `envconfig:"OQS_DIR_PATH" required:"true"`
	RestAPIActive bool   `envconfig:"OQS_REST_API_ACTIVE" default:"false"`
	RestAPIPort   string `envconfig:"OQS_REST_API_PORT" default:"10000"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	oqsLogger := logger.NewLogger("Main")
	fatalErrLogger := oqsLogger.Fatal().Caller()
	warmCache := flag.Bool("warm-cache", false, "a bool")
	flag.Parse()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}

	// prepare the results cache dir and exit
	if *warmCache {
		cfgs, err := types.LoadConfigurations(config.ConfigPath)
		if err != nil {
			oqsLogger.Err(err).Msg("Failed to load configurations")
			return
		}
		pipelineParams := pipeline.GetDefaultOntologyParams(config.DirPath, cfgs)
		_, err = pipeline.Ontology(pipelineParams)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Failed to prepare results cache")
			os.Exit(1)
		} else {
			oqsLogger.Info().Msg("Results cache was prepared. Exit...")
		}
		return
	}

	//Load Pipeline
	pipelineChannel := make(chan pipeline.Pipeline)
	go func() {
		for retry := 0; retry < pipelineStartMaxRetries; retry++ {
			cfgs, err := types.LoadConfigurations(config.ConfigPath)
			if err != nil {
				oqsLogger.Err(err).Msg("Failed to load configurations. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			oqsLogger.Info().Msgf("Loaded %d configurations", len(cfgs))
			oqsLogger.Info().Msg("Starting pipeline loading")

			pipelineParams := pipeline.GetDefaultOntologyParams(config.DirPath, cfgs)
			ppln, err := pipeline.Ontology(pipelineParams)
			if err != nil {
				oqsLogger.Err(err).Msg("Failed to start ontology pipeline. Retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			oqsLogger.Info().Msg("Pipeline loaded")
			pipelineChannel <- ppln
			return
		}
		fatalErrLogger.Msg("Could not start pipeline after 5 retries, exiting")
		os.Exit(1)
	}()

	// block until pipeline loads
	ppln := <-pipelineChannel

	if config.RestAPIActive {
		go func() {
			oqsLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline: ppln,
			}
			http.HandleFunc("/", apiRequest.ProcessBatch)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			oqsLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, nil)
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	oqsLogger.Info().Msg("Start OQS Worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			oqsLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			oqsLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}
