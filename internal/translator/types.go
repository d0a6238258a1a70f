// Package translator defines the translation provider contract consumed by
// the executor, concrete provider implementations, and the permanent vs.
// transient failure taxonomy that drives retry decisions.
package translator

import (
	"context"
	"time"
)

// Request carries one text and its language pair to a provider.
type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Provider is a single opaque translation operation. Implementations are
// agnostic to the wire protocol; they only need to surface failures that
// can be classified permanent or transient (see Error).
type Provider interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}

// Config holds provider construction settings shared by the CLI layer.
type Config struct {
	Credentials string        `mapstructure:"credentials" json:"credentials"`
	APIKey      string        `mapstructure:"api_key" json:"api_key"`
	BaseURL     string        `mapstructure:"base_url" json:"base_url"`
	Email       string        `mapstructure:"email" json:"email"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout"`
}
