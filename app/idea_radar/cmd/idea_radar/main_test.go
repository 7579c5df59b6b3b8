package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/idea_radar/app/idea_radar/internal/service"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/config"
	dm "github.com/iWorld-y/idea_radar/app/idea_radar/pkg/model"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "analyze"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.Equal(t, defaultConf, root.PersistentFlags().Lookup("conf").DefValue)
}

func TestAnalyzeCmd_RejectsBlankFields(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", "--idea", "bakery", "--country", "India"})

	err := root.Execute()
	assert.ErrorIs(t, err, dm.ErrInvalidRequest)
}

func TestLoadConfig_MissingDefaultFile(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "secret")

	cfg, err := loadConfig(defaultConf)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.LLM.APIKey)
	assert.Equal(t, config.DefaultHTTPAddr, cfg.Server.HTTP.Addr)
}

func TestLoadConfig_MissingAPIKey(t *testing.T) {
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvLegacyAPIKey, "")

	_, err := loadConfig(defaultConf)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := loadConfig("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestWriteReport_IncludesFailedSections(t *testing.T) {
	var buf bytes.Buffer
	outcome := &dm.Outcome{Report: dm.NewReport(), Failed: []dm.TaskFailure{{ID: dm.SWOT, Error: "timeout"}}}
	require.NoError(t, writeReport(&buf, outcome))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 13)
	assert.Equal(t, []any{map[string]any{"section": "swot", "error": "timeout"}}, got[service.FailedSectionsKey])
}

func TestWriteReport_CompleteOutcome(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, &dm.Outcome{Report: dm.NewReport()}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got, 12)
	assert.NotContains(t, got, service.FailedSectionsKey)
}
