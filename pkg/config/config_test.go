package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "roster.yaml", cfg.Roster.File)
	assert.Zero(t, cfg.Roster.Year)
	assert.Zero(t, cfg.Roster.Month)
	assert.Zero(t, cfg.Roster.Slots)
	assert.Empty(t, cfg.Roster.CrossSites)
	assert.Equal(t, int64(42), cfg.Solver.Seed)
	assert.Equal(t, 30*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, []string{"csv", "pdf", "text"}, cfg.Output.Formats)
	assert.Empty(t, cfg.Output.MetricsFile)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ROSTER_FILE", "team.json")
	t.Setenv("YEAR", "2026")
	t.Setenv("MONTH", "3")
	t.Setenv("SEED", "7")
	t.Setenv("SOLVE_TIMEOUT", "5s")
	t.Setenv("CROSS_SITES", " OH , TV , HQ ")
	t.Setenv("OUTPUT_FORMATS", "csv")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "team.json", cfg.Roster.File)
	assert.Equal(t, 2026, cfg.Roster.Year)
	assert.Equal(t, 3, cfg.Roster.Month)
	assert.Equal(t, int64(7), cfg.Solver.Seed)
	assert.Equal(t, 5*time.Second, cfg.Solver.Timeout)
	assert.Equal(t, []string{"OH", "TV", "HQ"}, cfg.Roster.CrossSites)
	assert.Equal(t, []string{"csv"}, cfg.Output.Formats)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SEED", "7")
	t.Setenv("SLOTS", "4")

	cfg, err := Load([]string{"--seed", "99", "-f", "other.yaml", "--solve-timeout", "1m", "--formats", "pdf,text"})
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Solver.Seed)
	assert.Equal(t, "other.yaml", cfg.Roster.File)
	assert.Equal(t, time.Minute, cfg.Solver.Timeout)
	assert.Equal(t, 4, cfg.Roster.Slots)
	assert.Equal(t, []string{"pdf", "text"}, cfg.Output.Formats)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for name, args := range map[string][]string{
		"month out of range": {"--year", "2026", "--month", "13"},
		"year without month": {"--year", "2026"},
		"slot count":         {"--slots", "6"},
		"format":             {"--formats", "xlsx"},
		"timeout":            {"--solve-timeout", "0s"},
		"unknown flag":       {"--nope"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(args)
			assert.Error(t, err)
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim("a, ,b,"))
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("", time.Second)
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)

	d, err = parseDuration("2m", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, d)

	_, err = parseDuration("soon", time.Second)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedTimeout(t *testing.T) {
	t.Setenv("SOLVE_TIMEOUT", "ten seconds")
	_, err := Load(nil)
	assert.ErrorContains(t, err, "SOLVE_TIMEOUT")
}
