package translator

import (
	"context"
	"errors"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleProvider translates through the Google Cloud Translation API.
type GoogleProvider struct {
	credentialsFile string
}

func NewGoogleProvider(credentialsFile string) *GoogleProvider {
	return &GoogleProvider{credentialsFile: credentialsFile}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Translate(ctx context.Context, req Request) (string, error) {
	targetTag, err := language.Parse(req.TargetLang)
	if err != nil {
		return "", NewError(Permanent, p.Name(), fmt.Errorf("invalid target language %q: %w", req.TargetLang, err))
	}

	var opts []option.ClientOption
	if p.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(p.credentialsFile))
	}

	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return "", p.classify(fmt.Errorf("failed to create client: %w", err))
	}
	defer client.Close()

	var translations []translate.Translation
	if req.SourceLang == "" || req.SourceLang == "auto" {
		translations, err = client.Translate(ctx, []string{req.Text}, targetTag, nil)
	} else {
		sourceTag, parseErr := language.Parse(req.SourceLang)
		if parseErr != nil {
			return "", NewError(Permanent, p.Name(), fmt.Errorf("invalid source language %q: %w", req.SourceLang, parseErr))
		}
		translations, err = client.Translate(ctx, []string{req.Text}, targetTag, &translate.Options{
			Source: sourceTag,
		})
	}
	if err != nil {
		return "", p.classify(fmt.Errorf("translation failed: %w", err))
	}

	if len(translations) == 0 {
		return "", NewError(Transient, p.Name(), fmt.Errorf("no translation returned"))
	}
	return translations[0].Text, nil
}

// classify prefers the HTTP status carried by googleapi errors and falls
// back to the message heuristic.
func (p *GoogleProvider) classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return NewError(ClassifyStatus(apiErr.Code), p.Name(), err)
	}
	return Classify(p.Name(), err)
}
