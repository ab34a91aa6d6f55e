package pipeline

import (
	"errors"
	"io/ioutil"
	"os"
	"path"
	"strconv"

	"github.com/rs/zerolog"

	"topicsearch.com/oqs/batch"
	"topicsearch.com/oqs/engine"
	"topicsearch.com/oqs/logger"
	"topicsearch.com/oqs/topology"
	"topicsearch.com/oqs/types"
	"topicsearch.com/oqs/utils"
)

type OntologyParams struct {
	CacheDir       string                `json:"cache_dir"`
	Configurations []types.Configuration `json:"configurations"`
}

func GetDefaultOntologyParams(dirPath string, cfgs []types.Configuration) OntologyParams {
	return OntologyParams{
		CacheDir:       path.Join(dirPath, "results_cache"),
		Configurations: cfgs,
	}
}

// Ontology builds the batch query pipeline for the active configuration.
func Ontology(params OntologyParams) (Pipeline, error) {
	oqsLogger := logger.NewLogger("Ontology pipeline")
	errLogger := oqsLogger.With().Caller().Logger()
	oqsLogger.Info().
		Interface("params", params).
		Msg("Starting ontology pipeline (see parameters in 'params' field)")

	cfg, err := activeConfiguration(params.Configurations)
	if err != nil {
		errLogger.Err(err).
			Interface("configurations", params.Configurations).
			Msg("Failed to pick active configuration")
		return nil, err
	}
	oqsLogger.Info().Str("config_name", cfg.Name).Msg("Using configuration")

	cacheResults := cfg.CheckFeature(types.CacheResults)
	skipUnknown := cfg.CheckFeature(types.SkipUnknownTopics)

	if cacheResults {
		if err := os.MkdirAll(params.CacheDir, 0700); err != nil {
			errLogger.Err(err).
				Str("cache_dir", params.CacheDir).
				Msg("Failed to create results cache directory")
			return nil, err
		}
	}

	return func(request Request) <-chan string {
		responseChan := make(chan string)
		pplnLog := oqsLogger.With().Str("tid", request.Tid).Logger()
		reqErrLogger := pplnLog.With().Caller().Logger()

		go func() {
			defer close(responseChan)
			pplnLog.Info().Msg("Started ontology pipeline")

			if cacheResults {
				if cached, ok := readCachedResults(params.CacheDir, request.Text); ok {
					pplnLog.Info().Msg("Answered batch from results cache")
					responseChan <- cached
					return
				}
			}

			results, err := runBatch(request.Text, skipUnknown)
			if err != nil {
				reqErrLogger.Err(err).Msg("Failed to process batch")
				return
			}
			response := batch.FormatResults(results)

			if cacheResults {
				go writeCachedResults(params.CacheDir, request.Text, response, &reqErrLogger)
			}
			pplnLog.Info().Int("query_count", len(results)).Msg("Finished ontology pipeline")
			responseChan <- response
		}()

		return responseChan
	}, nil
}

func activeConfiguration(cfgs []types.Configuration) (types.Configuration, error) {
	for _, cfg := range cfgs {
		if cfg.Pipeline == types.OntologyPipeline {
			return cfg, nil
		}
	}
	return types.Configuration{}, errors.New("no ontology configuration found")
}

func runBatch(text string, skipUnknown bool) (results []int, err error) {
	defer utils.RecoverWithError(&err)

	parsed, err := batch.ReadString(text)
	if err != nil {
		return nil, err
	}
	topo, err := topology.Build(topology.Tokenize(parsed.Tree))
	if err != nil {
		return nil, err
	}
	for _, question := range parsed.Questions {
		if err := topo.AddQuestion(question.Topic, question.Text); err != nil {
			var unknown *topology.UnknownTopicError
			if skipUnknown && errors.As(err, &unknown) {
				continue
			}
			return nil, err
		}
	}
	return engine.RunWithOptions(topo, parsed.Queries, engine.Options{
		SkipUnknownTopics: skipUnknown,
	})
}

func cachedResultsPath(cacheDir, text string) string {
	key := strconv.FormatUint(utils.HashString(text), 10)
	return path.Join(cacheDir, key+".results")
}

func readCachedResults(cacheDir, text string) (string, bool) {
	data, err := ioutil.ReadFile(cachedResultsPath(cacheDir, text))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func writeCachedResults(cacheDir, text, response string, errLogger *zerolog.Logger) {
	if err := ioutil.WriteFile(cachedResultsPath(cacheDir, text), []byte(response), 0600); err != nil {
		errLogger.Err(err).Msg("Could not write results cache file")
	}
}
