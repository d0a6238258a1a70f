package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// MyMemoryProvider translates through the free MyMemory HTTP API. Supplying
// an e-mail address raises the daily character quota.
type MyMemoryProvider struct {
	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemoryProvider(email string, timeout time.Duration) *MyMemoryProvider {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &MyMemoryProvider{
		email:   email,
		baseURL: "https://api.mymemory.translated.net",
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *MyMemoryProvider) Name() string {
	return "mymemory"
}

func (p *MyMemoryProvider) Translate(ctx context.Context, req Request) (string, error) {
	sourceLang := req.SourceLang
	if sourceLang == "" || sourceLang == "auto" {
		sourceLang = "en"
	}
	langPair := fmt.Sprintf("%s|%s", sourceLang, req.TargetLang)

	apiURL := fmt.Sprintf("%s/get?q=%s&langpair=%s",
		p.baseURL,
		url.QueryEscape(req.Text),
		url.QueryEscape(langPair))
	if p.email != "" {
		apiURL += fmt.Sprintf("&de=%s", url.QueryEscape(p.email))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", NewError(Permanent, p.Name(), fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		// Network and timeout failures may clear up on retry.
		return "", NewError(Transient, p.Name(), fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", NewError(ClassifyStatus(resp.StatusCode), p.Name(),
			fmt.Errorf("API returned status %d", resp.StatusCode))
	}

	var body struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", NewError(Transient, p.Name(), fmt.Errorf("failed to decode response: %w", err))
	}

	// MyMemory reports errors in-band with a 200 transport status.
	if body.ResponseStatus != 200 {
		apiErr := fmt.Errorf("API error: %s (%d)", body.ResponseDetails, body.ResponseStatus)
		if kind := ClassifyStatus(body.ResponseStatus); kind == Permanent {
			return "", NewError(Permanent, p.Name(), apiErr)
		}
		return "", Classify(p.Name(), apiErr)
	}

	return body.ResponseData.TranslatedText, nil
}
