package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/advpress/advpress-backend/pkg/logger"
)

const (
	defaultAuditTokenURL  = "https://aip.baidubce.com/oauth/2.0/token"
	defaultAuditCensorURL = "https://aip.baidubce.com/rest/2.0/solution/v1/text_censor/v2/user_defined"

	// text censor verdicts
	auditConclusionPass   = 1
	auditConclusionReject = 2
)

// defaultSensitiveWords drive the simulated verdict in test mode
var defaultSensitiveWords = []string{"测试敏感词", "违规内容", "政治敏感", "敏感", "违法"}

// NewContentAuditor selects the auditor for the audit configuration: off
// means every attempt passes, test mode simulates verdicts with a local
// keyword list, otherwise the remote text-censor API decides.
func NewContentAuditor(enabled, testMode bool, apiKey, secretKey string) ContentAuditor {
	if !enabled {
		return DisabledAuditor{}
	}
	if testMode {
		return NewKeywordAuditor(nil)
	}
	if apiKey == "" || secretKey == "" {
		logger.Warn("content audit enabled but API keys are missing, auditing disabled")
		return DisabledAuditor{}
	}
	return NewTextAuditor(apiKey, secretKey)
}

// KeywordAuditor rejects text containing any listed word. It stands in for
// the remote censor in test mode.
type KeywordAuditor struct {
	words []string
}

// NewKeywordAuditor creates a KeywordAuditor; nil words selects the defaults
func NewKeywordAuditor(words []string) *KeywordAuditor {
	if len(words) == 0 {
		words = defaultSensitiveWords
	}
	return &KeywordAuditor{words: words}
}

// Audit scans title and content for listed words
func (a *KeywordAuditor) Audit(_ context.Context, title, content string) (*AuditResult, error) {
	text := title + "\n" + content
	for _, w := range a.words {
		if strings.Contains(text, w) {
			return &AuditResult{Pass: false, Reason: "sensitive word: " + w}, nil
		}
	}
	return &AuditResult{Pass: true}, nil
}

// TextAuditor calls the remote text-censor API. The access token comes from
// a client-credentials grant and is cached until shortly before expiry; a
// 401 from the censor endpoint forces one refresh and retry.
type TextAuditor struct {
	apiKey    string
	secretKey string
	client    *http.Client

	tokenURL  string
	censorURL string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewTextAuditor creates a TextAuditor for the given credentials
func NewTextAuditor(apiKey, secretKey string) *TextAuditor {
	return &TextAuditor{
		apiKey:    apiKey,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		tokenURL:  defaultAuditTokenURL,
		censorURL: defaultAuditCensorURL,
	}
}

// Audit submits the combined text for a verdict
func (a *TextAuditor) Audit(ctx context.Context, title, content string) (*AuditResult, error) {
	token, err := a.token(ctx, false)
	if err != nil {
		return nil, err
	}

	text := title + "\n" + content
	verdict, status, err := a.censor(ctx, token, text)
	if status == http.StatusUnauthorized {
		if token, err = a.token(ctx, true); err != nil {
			return nil, err
		}
		verdict, _, err = a.censor(ctx, token, text)
	}
	return verdict, err
}

func (a *TextAuditor) token(ctx context.Context, force bool) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !force && a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	params := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.apiKey},
		"client_secret": {a.secretKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("audit token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("audit token request: HTTP %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("audit token decode: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("audit token response missing access_token")
	}
	if body.ExpiresIn == 0 {
		body.ExpiresIn = 2592000
	}

	a.accessToken = body.AccessToken
	// refresh ten minutes early
	a.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn-600) * time.Second)
	return a.accessToken, nil
}

func (a *TextAuditor) censor(ctx context.Context, token, text string) (*AuditResult, int, error) {
	form := url.Values{
		"text":         {text},
		"access_token": {token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.censorURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("audit request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, resp.StatusCode, fmt.Errorf("audit token expired")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("audit service: HTTP %d", resp.StatusCode)
	}

	var body struct {
		ConclusionType int `json:"conclusionType"`
		Data           []struct {
			Msg string `json:"msg"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("audit decode: %w", err)
	}

	switch body.ConclusionType {
	case auditConclusionPass:
		return &AuditResult{Pass: true}, resp.StatusCode, nil
	case auditConclusionReject:
		reason := "content violation"
		if len(body.Data) > 0 && body.Data[0].Msg != "" {
			reason = body.Data[0].Msg
		}
		return &AuditResult{Pass: false, Reason: reason}, resp.StatusCode, nil
	default:
		// suspect verdicts pass through; the post still waits in pending
		// for a human approval
		return &AuditResult{Pass: true}, resp.StatusCode, nil
	}
}
