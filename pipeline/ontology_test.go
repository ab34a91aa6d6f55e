package pipeline

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"topicsearch.com/oqs/types"
)

const sampleBatch = `4
A ( B C ( D ) )
3
A: Is this a sentence
B: Is this good
D: Is this relevant
3
A Is this
C Is this
B Is this g
`

func ontologyConfig(features ...string) types.Configuration {
	return types.Configuration{
		Name:     "test",
		Pipeline: types.OntologyPipeline,
		Features: features,
	}
}

func TestOntologyPipeline(t *testing.T) {
	ppln, err := Ontology(OntologyParams{
		Configurations: []types.Configuration{ontologyConfig()},
	})
	require.NoError(t, err)

	response, ok := <-ppln(Request{Tid: "test-batch", Text: sampleBatch})
	require.True(t, ok)
	require.Equal(t, "3\n1\n1\n", response)
}

func TestOntologyPipelineFailsClosed(t *testing.T) {
	ppln, err := Ontology(OntologyParams{
		Configurations: []types.Configuration{ontologyConfig()},
	})
	require.NoError(t, err)

	// Unbalanced topology: the channel closes without a value.
	_, ok := <-ppln(Request{Tid: "bad-batch", Text: "1\nA ) )\n0\n0\n"})
	require.False(t, ok)

	// Unknown topic is fatal without the skip feature.
	_, ok = <-ppln(Request{Tid: "unknown-topic", Text: "1\nA\n1\nB: Is this known\n0\n"})
	require.False(t, ok)
}

func TestOntologyPipelineSkipUnknownTopics(t *testing.T) {
	ppln, err := Ontology(OntologyParams{
		Configurations: []types.Configuration{ontologyConfig(types.SkipUnknownTopics)},
	})
	require.NoError(t, err)

	text := "1\nA\n2\nA: Is this known\nB: Is this known\n2\nA Is\nB Is\n"
	response, ok := <-ppln(Request{Tid: "lenient-batch", Text: text})
	require.True(t, ok)
	require.Equal(t, "1\n0\n", response)
}

func TestOntologyPipelineResultsCache(t *testing.T) {
	dir, err := ioutil.TempDir("", "oqs-results-cache")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	ppln, err := Ontology(OntologyParams{
		CacheDir:       dir,
		Configurations: []types.Configuration{ontologyConfig(types.CacheResults)},
	})
	require.NoError(t, err)

	first, ok := <-ppln(Request{Tid: "warm", Text: sampleBatch})
	require.True(t, ok)

	// Seed the cache entry synchronously so the second run must hit it.
	nop := zerolog.Nop()
	writeCachedResults(dir, sampleBatch, first, &nop)

	second, ok := <-ppln(Request{Tid: "cached", Text: sampleBatch})
	require.True(t, ok)
	require.Equal(t, first, second)
}

func TestOntologyRequiresConfiguration(t *testing.T) {
	_, err := Ontology(OntologyParams{})
	require.Error(t, err)

	_, err = Ontology(OntologyParams{
		Configurations: []types.Configuration{{Name: "other", Pipeline: "something_else"}},
	})
	require.Error(t, err)
}
