package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-critic/go-critic/checkers/analyzer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis/analysistest"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"honnef.co/go/tools/quickfix"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"
)

var testChecks = map[string]bool{
	"ST1005": true,
	"ST1000": true,
	"ST1020": true,
	"ST1013": true,
	"S1008":  true,
	"S1021":  true,
}

func TestOsExitCheckAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), OsExitCheckAnalyzer, "osexit")
}

func TestNoCtxRequestAnalyzer(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), NoCtxRequestAnalyzer, "noctx")
}

func TestCopylock(t *testing.T) {
	analysistest.Run(t, analysistest.TestData(), copylock.Analyzer, "copylock")
}

func TestAppendChecks(t *testing.T) {
	mychecks = nil
	appendChecks(staticcheck.Analyzers, testChecks)
	appendChecks(stylecheck.Analyzers, testChecks)
	appendChecks(simple.Analyzers, testChecks)
	appendChecks(quickfix.Analyzers, testChecks)

	names := make(map[string]bool, len(mychecks))
	for _, a := range mychecks {
		names[a.Name] = true
	}
	for name := range testChecks {
		assert.True(t, names[name], name)
	}
	assert.True(t, names["SA4006"])
	assert.False(t, names["ST1003"])
}

func TestAppendAll(t *testing.T) {
	appendPassesChecks()
	appendStaticcheckIoChecks(testChecks)
	appendOtherPublicChecks()
	appendCustomChecks()

	names := make(map[string]bool, len(mychecks))
	for _, a := range mychecks {
		names[a.Name] = true
	}
	for _, name := range []string{"copylocks", "bodyclose", "errcheck", "osexitcheck", "noctxrequest"} {
		assert.True(t, names[name], name)
	}
	assert.Contains(t, mychecks, analyzer.Analyzer, "go-critic")
}

func TestLoadConfig(t *testing.T) {
	t.Run("shipped file", func(t *testing.T) {
		cfg, err := loadConfig(Config)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"ST1005", "ST1000", "ST1020", "ST1013", "S1008", "S1021"}, cfg.Staticcheck)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg, err := loadConfig(filepath.Join(t.TempDir(), Config))
		require.NoError(t, err)
		assert.Empty(t, cfg.Staticcheck)
	})

	t.Run("broken file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), Config)
		require.NoError(t, os.WriteFile(path, []byte(`{"staticcheck": [`), 0o600))
		_, err := loadConfig(path)
		assert.Error(t, err)
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv(ConfigEnv, "/etc/staticlint.json")
		path, err := configPath()
		require.NoError(t, err)
		assert.Equal(t, "/etc/staticlint.json", path)
	})
}
