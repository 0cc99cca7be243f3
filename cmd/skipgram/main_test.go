package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridl/wordembed"
	"github.com/gridl/wordembed/word2vec"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/anyvec"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/serializer"
)

func TestParseArgs(t *testing.T) {
	cfg, err := parseArgs([]string{"-corpus", "text8", "-window", "3", "-probes", "one, two"})
	require.NoError(t, err)
	assert.Equal(t, "text8", cfg.Corpus)
	assert.Equal(t, 3, cfg.Window)
	assert.Equal(t, []string{"one", "two"}, cfg.Probes)

	_, err = parseArgs([]string{"-window", "0", "-corpus", "text8"})
	require.ErrorIs(t, err, wordembed.ErrInvalidArgument)
}

func TestParseArgsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpus: a.txt\nwindow: 2\ndim: 16\n"), 0644))

	cfg, err := parseArgs([]string{"-config", path, "-window", "4"})
	require.NoError(t, err)
	assert.Equal(t, "a.txt", cfg.Corpus)
	assert.Equal(t, 4, cfg.Window, "flags override the file")
	assert.Equal(t, 16, cfg.Dim)
}

func TestNearestTokens(t *testing.T) {
	vocab, err := wordembed.NewVocab(wordembed.TokenCounts{"king": 4, "queen": 3, "apple": 2}, 4)
	require.NoError(t, err)
	embed := &word2vec.Embed{
		Vocab: vocab,
		Vectors: &anyvec.Matrix{
			Data: anyvec32.MakeVectorData([]float32{
				0, 0, 1,
				1, 0.1, 0,
				0.9, 0.2, 0,
				-1, 0, 0.1,
			}),
			Rows: 4,
			Cols: 3,
		},
	}
	assert.Equal(t, []string{"queen", wordembed.UnknownToken}, nearestTokens(embed, vocab.ID("king"), 2))
	assert.Equal(t, []string{"king"}, nearestTokens(embed, vocab.ID("queen"), 1))
	assert.Len(t, nearestTokens(embed, vocab.ID("apple"), 10), 3)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "corpus.txt")
	text := "the cat sat on the mat and the dog sat on the log while the cat slept"
	require.NoError(t, os.WriteFile(corpus, []byte(text), 0644))

	for _, objective := range []string{"nce", "hierarchical"} {
		t.Run(objective, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Corpus = corpus
			cfg.Output = filepath.Join(dir, objective+".bin")
			cfg.VocabSize = 8
			cfg.Dim = 4
			cfg.BatchSize = 5
			cfg.NumSampled = 3
			cfg.Sampler = "unigram"
			cfg.Objective = objective
			cfg.Epochs = 2
			require.NoError(t, cfg.Validate())

			logger, hook := test.NewNullLogger()
			require.NoError(t, run(context.Background(), cfg, logger.WithField("test", t.Name())))

			var messages []string
			for _, entry := range hook.AllEntries() {
				if entry.Level <= logrus.InfoLevel {
					messages = append(messages, entry.Message)
				}
			}
			assert.Contains(t, messages, "built vocabulary")
			assert.Contains(t, messages, "finished epoch")
			assert.Contains(t, messages, "saved embedding")

			data, err := os.ReadFile(cfg.Output)
			require.NoError(t, err)
			var embed *word2vec.Embed
			require.NoError(t, serializer.DeserializeAny(data, &embed))
			assert.Equal(t, 8, embed.Vocab.Len())
			assert.Equal(t, 4, embed.Dim())
			assert.Equal(t, "the", embed.Token(1))
		})
	}
}
