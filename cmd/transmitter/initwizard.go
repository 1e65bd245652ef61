package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/germanamz/transmitter/pkg/appdir"
	"github.com/germanamz/transmitter/pkg/config"
)

// wizardAnswers holds the raw form values; durations stay strings until
// validated.
type wizardAnswers struct {
	ServerURL    string
	Mode         string
	TickInterval string
	PollInterval string
	LogLevel     string
	Metrics      bool
}

func defaultAnswers() wizardAnswers {
	d := config.Default()
	return wizardAnswers{
		ServerURL:    d.ServerURL,
		Mode:         d.Mode,
		TickInterval: d.TickInterval,
		PollInterval: d.PollInterval,
		LogLevel:     d.LogLevel,
		Metrics:      d.Metrics,
	}
}

func runInit(dirPath string, useDefaults bool) error {
	answers := defaultAnswers()
	if !useDefaults {
		if err := runWizard(&answers); err != nil {
			return err
		}
	}

	data, err := marshalAnswers(answers)
	if err != nil {
		return err
	}

	d := appdir.New(dirPath)
	if err := appdir.BootstrapWithConfig(d, data); err != nil {
		return err
	}

	fmt.Printf("Initialized %s\n", d.Root())

	return nil
}

func runWizard(a *wizardAnswers) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Transmitter API URL").Value(&a.ServerURL).Validate(validateServerURL),
			huh.NewSelect[string]().
				Title("Start-up mode").
				Options(
					huh.NewOption("Local clock", "local"),
					huh.NewOption("Sync with server", "sync"),
				).
				Value(&a.Mode),
		),
		huh.NewGroup(
			huh.NewInput().Title("Local tick interval (e.g. 1s)").Value(&a.TickInterval).Validate(validatePositiveDuration),
			huh.NewInput().Title("Sync poll interval (e.g. 500ms)").Value(&a.PollInterval).Validate(validatePositiveDuration),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&a.LogLevel),
			huh.NewConfirm().Title("Expose /metrics from `transmitter serve`?").Value(&a.Metrics),
		),
	).Run()
}

// marshalAnswers renders the answers as a validated config file.
func marshalAnswers(a wizardAnswers) ([]byte, error) {
	cfg := config.Default()
	cfg.ServerURL = a.ServerURL
	cfg.Mode = a.Mode
	cfg.TickInterval = a.TickInterval
	cfg.PollInterval = a.PollInterval
	cfg.LogLevel = a.LogLevel
	cfg.Metrics = a.Metrics

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return config.Marshal(cfg)
}

func validateServerURL(s string) error {
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an http(s) URL such as http://localhost:5001")
	}

	return nil
}

func validatePositiveDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fmt.Errorf("must be a positive duration (e.g. 1s, 500ms)")
	}

	return nil
}
