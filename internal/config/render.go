package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

type configYAML struct {
	Primary     Host        `yaml:"primary"`
	Secondaries []Host      `yaml:"secondaries"`
	Sync        SyncOptions `yaml:"sync"`

	UpdateGravity   bool `yaml:"update_gravity"`
	Verbose         bool `yaml:"verbose"`
	RunOnce         bool `yaml:"run_once"`
	IntervalMinutes int  `yaml:"interval_minutes"`

	Notify notifyYAML `yaml:"notify"`
}

type notifyYAML struct {
	OnSuccess   bool      `yaml:"on_success"`
	OnFailure   bool      `yaml:"on_failure"`
	SMTP        *smtpYAML `yaml:"smtp,omitempty"`
	Honeybadger *string   `yaml:"honeybadger_api_key,omitempty"`
	Sentry      *string   `yaml:"sentry_dsn,omitempty"`
}

type smtpYAML struct {
	Host     string  `yaml:"host"`
	Port     string  `yaml:"port"`
	TLS      bool    `yaml:"tls"`
	User     *string `yaml:"user,omitempty"`
	Password *string `yaml:"password,omitempty"`
	From     *string `yaml:"from,omitempty"`
	To       string  `yaml:"to"`
}

// MarshalYAML implements yaml.Marshaler. Secrets are replaced with a marker.
func (c Config) MarshalYAML() (any, error) {
	out := configYAML{
		Primary:         c.Primary,
		Secondaries:     c.Secondaries,
		Sync:            c.Sync,
		UpdateGravity:   c.UpdateGravity,
		Verbose:         c.Verbose,
		RunOnce:         c.RunOnce,
		IntervalMinutes: c.IntervalMinutes,
		Notify: notifyYAML{
			OnSuccess:   c.NotifyOnSuccess,
			OnFailure:   c.NotifyOnFailure,
			Honeybadger: secretField(c.HoneybadgerAPIKey),
			Sentry:      secretField(c.SentryDSN),
		},
	}
	if c.NotifyViaSMTP {
		out.Notify.SMTP = &smtpYAML{
			Host:     c.SMTP.Host,
			Port:     c.SMTP.Port,
			TLS:      c.SMTP.TLS,
			User:     plainField(c.SMTP.User),
			Password: secretField(c.SMTP.Password),
			From:     plainField(c.SMTP.From),
			To:       c.SMTP.To,
		}
	}
	return out, nil
}

// Render encodes cfg as YAML with secrets redacted.
func Render(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func plainField(o Optional) *string {
	value, ok := o.Get()
	if !ok {
		return nil
	}
	return &value
}

func secretField(o Optional) *string {
	if !o.IsSet() {
		return nil
	}
	marker := redacted
	return &marker
}
