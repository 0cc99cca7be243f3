// Command skipgram trains word2vec skip-gram embeddings on
// a text corpus.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gridl/wordembed"
	"github.com/gridl/wordembed/word2vec"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/unixpickle/anyvec/anyvec32"
	"github.com/unixpickle/serializer"
)

const progressInterval = 10 * time.Second

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.WithError(err).Warn("using default log level")
	}
	log := logger.WithField("run", uuid.New().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("training failed")
	}
}

func parseArgs(args []string) (*Config, error) {
	cfg := DefaultConfig()
	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if path := fs.Lookup("config").Value.String(); path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		// Flags given on the command line take precedence
		// over the file.
		if err := newFlagSet(fileCfg).Parse(args); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("skipgram", flag.ContinueOnError)
	fs.String("config", "", "YAML configuration file")
	fs.StringVar(&cfg.Corpus, "corpus", cfg.Corpus, "text corpus to train on")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output embedding file")
	fs.IntVar(&cfg.VocabSize, "vocab", cfg.VocabSize, "vocabulary size, including UNK")
	fs.IntVar(&cfg.Dim, "dim", cfg.Dim, "embedding dimension")
	fs.IntVar(&cfg.Window, "window", cfg.Window, "context window radius")
	fs.IntVar(&cfg.BatchSize, "batch", cfg.BatchSize, "mini-batch size")
	fs.IntVar(&cfg.Shuffle, "shuffle", cfg.Shuffle, "shuffle buffer size (0 disables)")
	fs.StringVar(&cfg.Objective, "objective", cfg.Objective, "nce or hierarchical")
	fs.IntVar(&cfg.NumSampled, "samples", cfg.NumSampled, "noise samples per pair")
	fs.StringVar(&cfg.Sampler, "sampler", cfg.Sampler, "log_uniform or unigram")
	fs.Float64Var(&cfg.Rate, "rate", cfg.Rate, "learning rate")
	fs.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "passes over the corpus (0 trains until interrupted)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.Var((*wordList)(&cfg.Probes), "probes", "comma-separated words to print neighbors for")
	fs.IntVar(&cfg.NumNearest, "nearest", cfg.NumNearest, "neighbors to print per probe")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to serve metrics on")
	return fs
}

func run(ctx context.Context, cfg *Config, log logrus.FieldLogger) error {
	tokens, err := readCorpus(cfg.Corpus)
	if err != nil {
		return err
	}
	counts := wordembed.TokenCounts{}
	counts.Add(tokens...)
	vocab, err := wordembed.NewVocab(counts, cfg.VocabSize)
	if err != nil {
		return err
	}
	seq := vocab.IDs(tokens)
	log.WithFields(logrus.Fields{
		"tokens":  len(tokens),
		"unique":  len(counts),
		"vocab":   vocab.Len(),
		"unknown": vocab.Count(wordembed.UnknownID),
	}).Info("built vocabulary")

	gen := rand.New(rand.NewSource(cfg.Seed))
	pairs, err := wordembed.Pairs(seq, cfg.Window)
	if err != nil {
		return err
	}
	batches, err := word2vec.NewBatcher(pairs, cfg.BatchSize)
	if err != nil {
		return err
	}
	batches.ShuffleBuffer = cfg.Shuffle
	batches.Rand = gen

	objective, err := newObjective(cfg, vocab)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := word2vec.NewMetrics(reg)
	if err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		server := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("metrics server failed")
			}
		}()
		defer server.Close()
	}

	net := word2vec.NewNet(anyvec32.CurrentCreator(), vocab.Len(), cfg.Dim, objective.NumOutputs())
	trainer := &word2vec.SkipGram{
		Net:       net,
		Objective: objective,
		Batches:   batches,
		Rate:      cfg.Rate,
		Epochs:    cfg.Epochs,
		Rand:      gen,
		Log:       log,
		Metrics:   metrics,
	}

	log.WithFields(logrus.Fields{
		"pairs":     pairs.Len(),
		"batches":   batches.NumBatches(),
		"objective": cfg.Objective,
	}).Info("training")
	stopProgress := reportProgress(trainer, batches.NumBatches(), log)
	err = trainer.Train(ctx.Done())
	stopProgress()
	if err != nil {
		return err
	}

	embed := word2vec.NewEmbed(net, vocab)
	if err := saveEmbed(cfg.Output, embed); err != nil {
		return err
	}
	log.WithField("path", cfg.Output).Info("saved embedding")

	for _, probe := range cfg.Probes {
		if vocab.ID(probe) == wordembed.UnknownID && probe != wordembed.UnknownToken {
			log.WithField("word", probe).Warn("probe is not in the vocabulary")
			continue
		}
		fmt.Printf("Nearest to %s: %s\n", probe, strings.Join(nearestTokens(embed, vocab.ID(probe), cfg.NumNearest), ", "))
	}
	return nil
}

// nearestTokens lists the n tokens closest to the token
// with the given ID, not counting the token itself.
func nearestTokens(e wordembed.Embedding, id, n int) []string {
	ids, _ := e.Lookup(e.EmbedID(id), n+1)
	var res []string
	for _, other := range ids {
		if other != id && len(res) < n {
			res = append(res, e.Token(other))
		}
	}
	return res
}

func newObjective(cfg *Config, vocab *wordembed.Vocab) (word2vec.Objective, error) {
	if cfg.Objective == "hierarchical" {
		return &word2vec.Hierarchical{Hierarchy: word2vec.BuildHierarchy(vocab.Frequencies())}, nil
	}
	var sampler word2vec.Sampler
	if cfg.Sampler == "unigram" {
		s, err := word2vec.NewUnigramSampler(vocab, 0)
		if err != nil {
			return nil, err
		}
		sampler = s
	} else {
		sampler = &word2vec.LogUniformSampler{Range: vocab.Len()}
	}
	return &word2vec.NCE{
		Sampler:    sampler,
		NumSampled: cfg.NumSampled,
		VocabSize:  vocab.Len(),
	}, nil
}

func readCorpus(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open corpus")
	}
	defer f.Close()
	return wordembed.ReadTokens(f, &wordembed.Tokenizer{})
}

func saveEmbed(path string, e *word2vec.Embed) error {
	data, err := serializer.SerializeAny(e)
	if err != nil {
		return errors.Wrap(err, "serialize embedding")
	}
	return errors.Wrap(os.WriteFile(path, data, 0644), "save embedding")
}

func reportProgress(trainer *word2vec.SkipGram, perEpoch int, log logrus.FieldLogger) (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				steps := trainer.Steps()
				log.WithFields(logrus.Fields{
					"steps": steps,
					"epoch": float64(steps) / float64(max(perEpoch, 1)),
				}).Info("progress")
			}
		}
	}()
	return func() { close(done) }
}

// wordList is a comma-separated flag value.
type wordList []string

func (w *wordList) String() string {
	if w == nil {
		return ""
	}
	return strings.Join(*w, ",")
}

func (w *wordList) Set(s string) error {
	*w = nil
	for _, word := range strings.Split(s, ",") {
		if word = strings.TrimSpace(word); word != "" {
			*w = append(*w, word)
		}
	}
	return nil
}
