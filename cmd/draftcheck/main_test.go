package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/draftcheck/pkg/parse"
	"github.com/coolbeans/draftcheck/pkg/report"
	"github.com/coolbeans/draftcheck/pkg/validate"
)

func TestLoadConfigFlagsOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.Bool("offline", false, "")
	flags.String("format", "text", "")
	flags.String("mode", "normal", "")
	require.NoError(t, flags.Parse([]string{"--offline", "--format", "json"}))

	require.NoError(t, loadConfig(flags))
	assert.True(t, cfg.Offline)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "normal", cfg.Check.Mode)
}

func TestCheckFile(t *testing.T) {
	v := validate.NewValidator(validate.DefaultConfig(), nil)
	p := parse.NewParser(nil)

	missing := checkFile(context.Background(), v, p, filepath.Join(t.TempDir(), "absent.txt"))
	require.Len(t, missing.Messages, 1)
	assert.Equal(t, report.CheckReadError, missing.Messages[0].CheckID)
	assert.False(t, missing.IsValid())

	sample, err := filepath.Abs(filepath.Join("..", "..", "pkg", "parse", "testdata", "draft-doe-example-protocol-00.txt"))
	require.NoError(t, err)
	_, err = os.Stat(sample)
	require.NoError(t, err)

	rep := checkFile(context.Background(), v, p, sample)
	assert.True(t, rep.IsValid())
}
