package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/transmitter/pkg/appdir"
	"github.com/germanamz/transmitter/pkg/config"
)

func TestMarshalAnswers(t *testing.T) {
	a := defaultAnswers()
	a.Mode = "sync"
	a.PollInterval = "250ms"
	a.Metrics = false

	data, err := marshalAnswers(a)
	require.NoError(t, err)

	cfg, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "sync", cfg.Mode)
	assert.Equal(t, "250ms", cfg.PollInterval)
	assert.False(t, cfg.Metrics)
	assert.Equal(t, config.DefaultServerURL, cfg.ServerURL)
}

func TestMarshalAnswers_Invalid(t *testing.T) {
	a := defaultAnswers()
	a.TickInterval = "-1s"

	_, err := marshalAnswers(a)
	assert.ErrorContains(t, err, "tick_interval")
}

func TestRunInit_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".transmitter")

	require.NoError(t, runInit(dir, true))

	d := appdir.New(dir)
	data, err := os.ReadFile(d.ConfigPath())
	require.NoError(t, err)

	cfg, err := config.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestWizardValidators(t *testing.T) {
	assert.NoError(t, validateServerURL("http://localhost:5001"))
	assert.NoError(t, validateServerURL("https://numbers.example.com"))
	assert.Error(t, validateServerURL("localhost:5001"))
	assert.Error(t, validateServerURL(""))

	assert.NoError(t, validatePositiveDuration("500ms"))
	assert.Error(t, validatePositiveDuration("0s"))
	assert.Error(t, validatePositiveDuration("soon"))
}
