package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hscells/sweep/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(sweepers []config.Sweeper) []string {
	var n []string
	for _, s := range sweepers {
		n = append(n, s.Name)
	}
	return n
}

func TestDefaultIsFresh(t *testing.T) {
	a := config.Default()
	a.Sweepers[0].Name = "changed"
	b := config.Default()
	assert.Equal(t, "text_char_grams", b.Sweepers[0].Name)
	assert.Equal(t, 3600, b.TimeoutSeconds)
	assert.True(t, b.Enabled)
	require.Len(t, b.Balancing, 1)
	assert.Equal(t, "weight", b.Balancing[0].Type)
	assert.NoError(t, config.Validate(b))
}

func TestAssembleDropsDNN(t *testing.T) {
	s, err := config.Assemble(nil, config.Flags{})
	require.NoError(t, err)
	assert.NotContains(t, names(s.Sweepers), "text_embeddings")

	s, err = config.Assemble(nil, config.Flags{EnableDNN: true, DatasetLanguage: "jpn"})
	require.NoError(t, err)
	require.Contains(t, names(s.Sweepers), "text_embeddings")
	for _, c := range s.Sweepers {
		if c.Name == "text_embeddings" {
			assert.Equal(t, "jpn", c.Experiment.Featurizers[0].Kwargs["language"])
			assert.Nil(t, c.ExperimentResultOverride)
		}
		if c.Name == "text_char_grams" {
			assert.NotContains(t, c.Experiment.Featurizers[0].Kwargs, "language")
		}
	}
}

func TestAssembleForceDNN(t *testing.T) {
	base := config.Default()
	no := false
	for i := range base.Sweepers {
		if base.Sweepers[i].RequiresDNN {
			base.Sweepers[i].Enabled = &no
		}
	}
	s, err := config.Assemble(base, config.Flags{ForceDNN: true})
	require.NoError(t, err)
	for _, c := range s.Sweepers {
		if c.Name == "text_embeddings" {
			assert.True(t, c.IsEnabled())
			require.NotNil(t, c.ExperimentResultOverride)
			assert.True(t, *c.ExperimentResultOverride)
		}
	}
	// The base configuration is not modified.
	for _, c := range base.Sweepers {
		if c.RequiresDNN {
			assert.False(t, c.IsEnabled())
			assert.Nil(t, c.ExperimentResultOverride)
		}
	}
}

func TestDuplicateNames(t *testing.T) {
	base := config.Default()
	base.Sweepers = append(base.Sweepers, base.Sweepers[0])
	_, err := config.Assemble(base, config.Flags{})
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	// A disabled duplicate is allowed.
	no := false
	base.Sweepers[len(base.Sweepers)-1].Enabled = &no
	_, err = config.Assemble(base, config.Flags{})
	assert.NoError(t, err)
}

func TestUnknownIDs(t *testing.T) {
	for _, mutate := range []func(*config.Sweeper){
		func(s *config.Sweeper) { s.Type = "gradient" },
		func(s *config.Sweeper) { s.Sampler.ID = "reservoir" },
		func(s *config.Sweeper) { s.Scorer.ID = "auc" },
		func(s *config.Sweeper) { s.Estimator = "xgboost" },
		func(s *config.Sweeper) { s.Experiment.Featurizers[0].ID = "bert" },
		func(s *config.Sweeper) { s.ColumnPurposes[0].Types[0] = "image" },
	} {
		base := config.Default()
		mutate(&base.Sweepers[0])
		_, err := config.Assemble(base, config.Flags{})
		assert.True(t, errors.Is(err, config.ErrConfiguration), "%v", err)
	}

	base := config.Default()
	base.Sweepers[0].Type = "gradient"
	_, err := config.Assemble(base, config.Flags{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known: binary, weight")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
enabled: true
timeout_seconds: 60
sweepers:
  - name: colours
    type: binary
    sampler: {id: count, args: [10, 100], kwargs: {is_constraint_driven: true}}
    scorer: {id: classification, kwargs: {metric: balanced_accuracy}}
    experiment:
      featurizers: [{id: one_hot, kwargs: {max_categories: 5}}]
    epsilon: 0.02
    column_purposes: [{types: [categorical]}]
`), 0644))

	s, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, s.Sweepers, 1)
	c := s.Sweepers[0]
	assert.Equal(t, []interface{}{10, 100}, c.Sampler.Args)
	assert.Equal(t, "balanced_accuracy", c.Scorer.Kwargs["metric"])
	assert.Equal(t, 5, c.Experiment.Featurizers[0].Kwargs["max_categories"])
	assert.True(t, c.IsEnabled())
	assert.NoError(t, config.Validate(s))

	_, err = config.Parse([]byte("sweepers: {"))
	assert.True(t, errors.Is(err, config.ErrConfiguration))
}

func TestSettings(t *testing.T) {
	s, err := config.ParseSettings(`
sweep.timeout_seconds = 120
sweep.enable_dnn = true
sweep.dataset_language = deu
sweep.seed = 7
sweep.blocked_transformers = hash_chars, text_embedding
`)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, s.Timeout)
	assert.True(t, s.EnableDNN)
	assert.False(t, s.ForceDNN)
	assert.True(t, s.PageToDisk)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, []string{"hash_chars", "text_embedding"}, s.BlockedTransformers)
	assert.Equal(t, config.Flags{EnableDNN: true, DatasetLanguage: "deu"}, s.Flags())

	_, err = config.ParseSettings("sweep.timeout_seconds = 0")
	assert.True(t, errors.Is(err, config.ErrConfiguration))

	path := filepath.Join(t.TempDir(), "sweep.properties")
	require.NoError(t, os.WriteFile(path, []byte("sweep.force_dnn = true\n"), 0644))
	s, err = config.LoadSettings(path)
	require.NoError(t, err)
	assert.True(t, s.ForceDNN)
	assert.Equal(t, time.Hour, s.Timeout)
	assert.Equal(t, "eng", s.DatasetLanguage)
}

func TestSweeperHelpers(t *testing.T) {
	var separate, chars config.Sweeper
	for _, c := range config.Default().Sweepers {
		switch c.Name {
		case "text_columns_separate":
			separate = c
		case "text_char_grams":
			chars = c
		}
	}
	require.Len(t, separate.ColumnPurposes, 1)
	assert.True(t, separate.ColumnPurposes[0].Group)
	assert.True(t, separate.ColumnPurposes[0].FeaturizeSeparately)

	specs := chars.ExperimentSpecs()
	require.Len(t, specs, 2)
	assert.Equal(t, "hash_words", specs[0].ID)
	assert.Equal(t, "hash_chars", specs[1].ID)
	assert.Len(t, separate.ExperimentSpecs(), 2)
}
