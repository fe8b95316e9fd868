package codeexecutor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codecoffee/judge/internal/adapter/logging"
	"github.com/codecoffee/judge/internal/config"
	"github.com/codecoffee/judge/internal/static/errs"
)

func TestFactoryReusesExecutors(t *testing.T) {
	f := NewFactory(nil, config.NewJudgeConfig(), logging.NewNopLogger())

	first, err := f.GetExecutor("python")
	require.NoError(t, err)
	second, err := f.GetExecutor("python3")
	require.NoError(t, err)
	require.Same(t, first, second, "aliases resolve to the one cached executor")

	other, err := f.GetExecutor("cpp")
	require.NoError(t, err)
	require.NotSame(t, first, other)
}

func TestFactoryUnsupportedLanguage(t *testing.T) {
	f := NewFactory(nil, config.NewJudgeConfig(), logging.NewNopLogger())
	_, err := f.GetExecutor("brainfuck")
	require.ErrorIs(t, err, errs.ErrUnsupportedLanguage)
}
