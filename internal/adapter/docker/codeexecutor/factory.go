package codeexecutor

import (
	"sync"

	"github.com/docker/docker/client"

	"github.com/codecoffee/judge/internal/config"
	"github.com/codecoffee/judge/internal/core/ports/primary"
	"github.com/codecoffee/judge/internal/core/ports/secondary"
)

var _ secondary.ExecutorFactory = (*Factory)(nil)

// Factory hands out one executor per language, all sharing a single Docker
// client connection. Executors are cached after first use.
type Factory struct {
	cli    client.APIClient
	cfg    *config.JudgeConfig
	logger primary.Logger

	mu        sync.Mutex
	executors map[string]*CodeExecutor
}

func NewFactory(cli client.APIClient, cfg *config.JudgeConfig, logger primary.Logger) *Factory {
	return &Factory{
		cli:       cli,
		cfg:       cfg,
		logger:    logger,
		executors: make(map[string]*CodeExecutor),
	}
}

// GetExecutor resolves the language (aliases included) and returns its
// executor, or errs.ErrUnsupportedLanguage wrapped with the requested name.
func (f *Factory) GetExecutor(language string) (secondary.Executor, error) {
	lang, err := resolveLanguage(language)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if exec, ok := f.executors[lang.Name]; ok {
		return exec, nil
	}
	exec := NewCodeExecutor(f.cli, lang, f.cfg, f.logger)
	f.executors[lang.Name] = exec
	return exec, nil
}

// SupportedLanguages lists the canonical language names in registry order
func (f *Factory) SupportedLanguages() []string {
	return SupportedLanguages()
}
