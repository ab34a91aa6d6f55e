package types

import (
	"errors"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"topicsearch.com/oqs/logger"
)

const (
	// pipeline type
	OntologyPipeline = "ontology"

	// features
	CacheResults      = "cache_results"
	SkipUnknownTopics = "skip_unknown_topics"
)

type Configuration struct {
	Name     string   `json:"name"`
	FilePath string   `json:"file_path"`
	Pipeline string   `yaml:"pipeline" json:"pipeline"`
	Features []string `yaml:"features" json:"features"`
}

func (cfg Configuration) CheckFeature(featureName string) bool {
	for _, feat := range cfg.Features {
		if feat == featureName {
			return true
		}
	}

	return false
}

func LoadConfigurations(dirPath string) ([]Configuration, error) {
	oqsLogger := logger.NewLogger("LoadConfigurations")

	files, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(file os.FileInfo) {
			defer wg.Done()
			cfg := Configuration{
				Name:     strings.Split(file.Name(), ".yaml")[0],
				FilePath: path.Join(dirPath, file.Name()),
			}
			buf, err := ioutil.ReadFile(cfg.FilePath)
			if err != nil {
				oqsLogger.Err(err).Str("file", cfg.FilePath).Msg("Could not read configuration file")
				return
			}
			if err := yaml.Unmarshal(buf, &cfg); err != nil {
				oqsLogger.Err(err).Str("file", cfg.FilePath).Msg("Could not parse configuration file")
				return
			}

			// check pipeline type
			if cfg.Pipeline != OntologyPipeline {
				oqsLogger.Err(errors.New("wrong pipeline type")).Str("file", cfg.FilePath).Msg("Skipping configuration")
				return
			}

			configChan <- cfg
		}(f)
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	return configs, nil
}
