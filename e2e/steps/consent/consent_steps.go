package consent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers the consent journey step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, baseURL string) {
	steps := &consentSteps{baseURL: baseURL}

	ctx.Step(`^a fresh visitor session$`, steps.freshVisitorSession)
	ctx.Step(`^I open the demo page$`, steps.openDemoPage)
	ctx.Step(`^I accept tracking$`, steps.acceptTracking)
	ctx.Step(`^I decline tracking$`, steps.declineTracking)
	ctx.Step(`^I clear my consent decision$`, steps.clearDecision)
	ctx.Step(`^I request my consent status$`, steps.requestStatus)

	ctx.Step(`^the page should show the consent prompt$`, steps.promptShouldBeVisible)
	ctx.Step(`^the page should not show the consent prompt$`, steps.promptShouldBeHidden)
	ctx.Step(`^the page content should be blocked$`, steps.contentShouldBeBlocked)
	ctx.Step(`^the instrumentation snippet should be present$`, steps.snippetShouldBePresent)
	ctx.Step(`^the instrumentation snippet should be absent$`, steps.snippetShouldBeAbsent)
	ctx.Step(`^the reported decision should be "([^"]*)"$`, steps.reportedDecisionShouldBe)
}

type consentSteps struct {
	baseURL string
	client  *http.Client
	body    string
	status  int
}

func (s *consentSteps) freshVisitorSession(_ context.Context) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	s.client = &http.Client{Jar: jar}
	s.body = ""
	s.status = 0
	return nil
}

func (s *consentSteps) do(method, path string) error {
	req, err := http.NewRequest(method, s.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	s.body = string(body)
	s.status = resp.StatusCode
	return nil
}

func (s *consentSteps) openDemoPage(_ context.Context) error {
	if err := s.do(http.MethodGet, "/demo"); err != nil {
		return err
	}
	if s.status != http.StatusOK {
		return fmt.Errorf("expected 200 from /demo, got %d", s.status)
	}
	return nil
}

func (s *consentSteps) acceptTracking(_ context.Context) error {
	return s.do(http.MethodPost, "/consent/accept")
}

func (s *consentSteps) declineTracking(_ context.Context) error {
	return s.do(http.MethodPost, "/consent/decline")
}

func (s *consentSteps) clearDecision(_ context.Context) error {
	return s.do(http.MethodDelete, "/consent")
}

func (s *consentSteps) requestStatus(_ context.Context) error {
	return s.do(http.MethodGet, "/consent")
}

func (s *consentSteps) promptShouldBeVisible(_ context.Context) error {
	if !strings.Contains(s.body, `id="consent-modal"`) {
		return fmt.Errorf("expected consent modal in page body")
	}
	return nil
}

func (s *consentSteps) promptShouldBeHidden(_ context.Context) error {
	if strings.Contains(s.body, `id="consent-modal"`) {
		return fmt.Errorf("expected no consent modal in page body")
	}
	return nil
}

func (s *consentSteps) contentShouldBeBlocked(_ context.Context) error {
	if !strings.Contains(s.body, `class="blocked"`) {
		return fmt.Errorf("expected blocked content in page body")
	}
	return nil
}

func (s *consentSteps) snippetShouldBePresent(_ context.Context) error {
	if !strings.Contains(s.body, "amplitude.init(") {
		return fmt.Errorf("expected instrumentation snippet in page body")
	}
	return nil
}

func (s *consentSteps) snippetShouldBeAbsent(_ context.Context) error {
	if strings.Contains(s.body, "amplitude.init(") {
		return fmt.Errorf("expected no instrumentation snippet in page body")
	}
	return nil
}

func (s *consentSteps) reportedDecisionShouldBe(_ context.Context, want string) error {
	var status struct {
		Decision string `json:"decision"`
	}
	if err := json.Unmarshal([]byte(s.body), &status); err != nil {
		return fmt.Errorf("decode status response: %w", err)
	}
	if status.Decision != want {
		return fmt.Errorf("expected decision %q, got %q", want, status.Decision)
	}
	return nil
}
