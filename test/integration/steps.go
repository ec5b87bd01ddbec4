package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// session is one logged-in principal's credential pair.
type session struct {
	key   string
	token string
}

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte

	sessions         map[string]session
	activationTokens map[string]string
	shortIDs         map[string]string
	actor            string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:               tc,
		sessions:         make(map[string]session),
		activationTokens: make(map[string]string),
		shortIDs:         make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^an immpres server is running$`, s.serverIsRunning)
	sc.Step(`^a registered user "([^"]*)" with password "([^"]*)"$`, s.aRegisteredUser)
	sc.Step(`^acting as "([^"]*)"$`, s.actingAs)

	// Account lifecycle steps
	sc.Step(`^I sign up as "([^"]*)" with email "([^"]*)" and password "([^"]*)"$`, s.iSignUp)
	sc.Step(`^I verify the signup for "([^"]*)"$`, s.iVerifySignup)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I log out$`, s.iLogOut)

	// Resource steps
	sc.Step(`^I create an impression named "([^"]*)"$`, s.iCreateImpression)
	sc.Step(`^"([^"]*)" owns impressions named "([^"]*)"$`, s.userOwnsImpressions)
	sc.Step(`^I share the impression "([^"]*)" with "([^"]*)" as editor$`, s.iShareImpression)
	sc.Step(`^the impression "([^"]*)" is browsable by everyone$`, s.impressionIsBrowsable)
	sc.Step(`^I fetch the impression "([^"]*)"$`, s.iFetchImpression)
	sc.Step(`^I update the impression "([^"]*)" setting description "([^"]*)"$`, s.iUpdateImpression)
	sc.Step(`^I delete the impression "([^"]*)"$`, s.iDeleteImpression)

	// Listing steps
	sc.Step(`^I list impressions with role "([^"]*)" and pattern "([^"]*)"$`, s.iListWithRoleAndPattern)
	sc.Step(`^I search impressions for "([^"]*)"$`, s.iSearchImpressions)
	sc.Step(`^the listing should contain "([^"]*)"$`, s.listingShouldContain)
	sc.Step(`^the listing should not contain "([^"]*)"$`, s.listingShouldNotContain)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.responseStatusShouldBe)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.responseBodyShouldContain)
}

func (s *StepsContext) serverIsRunning() error {
	// Server is already running via TestContext
	return nil
}

// request performs an HTTP call, attaching the acting user's credential pair.
func (s *StepsContext) request(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if sess, ok := s.sessions[s.actor]; ok && s.actor != "" {
		req.Header.Set("x-key", sess.key)
		req.Header.Set("x-access-token", sess.token)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Account lifecycle steps

func (s *StepsContext) iSignUp(username, email, password string) error {
	err := s.request("POST", "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		var resp struct {
			ActivationToken string `json:"activationToken"`
		}
		if err := json.Unmarshal(s.responseBody, &resp); err != nil {
			return err
		}
		s.activationTokens[username] = resp.ActivationToken
	}
	return nil
}

func (s *StepsContext) iVerifySignup(username string) error {
	activationToken, ok := s.activationTokens[username]
	if !ok {
		return fmt.Errorf("no activation token recorded for %q", username)
	}
	return s.request("GET", "/auth/signup_verify/"+activationToken, nil)
}

func (s *StepsContext) iLogIn(username, password string) error {
	err := s.request("POST", "/auth/login", map[string]string{
		"login":    username,
		"password": password,
	})
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		var resp struct {
			Key   string `json:"key"`
			Token string `json:"token"`
		}
		if err := json.Unmarshal(s.responseBody, &resp); err != nil {
			return err
		}
		s.sessions[username] = session{key: resp.Key, token: resp.Token}
		s.actor = username
	}
	return nil
}

func (s *StepsContext) iLogOut() error {
	err := s.request("GET", "/auth/logout", nil)
	if err == nil {
		delete(s.sessions, s.actor)
	}
	return err
}

func (s *StepsContext) aRegisteredUser(username, password string) error {
	if _, ok := s.sessions[username]; ok {
		return nil
	}

	// The account may survive from an earlier scenario; signup failure is
	// fine as long as the login below succeeds.
	if err := s.iSignUp(username, username+"@example.com", password); err != nil {
		return err
	}
	if s.response.StatusCode == http.StatusOK {
		if err := s.iVerifySignup(username); err != nil {
			return err
		}
	}
	if err := s.iLogIn(username, password); err != nil {
		return err
	}
	if err := s.responseStatusShouldBe(http.StatusOK); err != nil {
		return fmt.Errorf("login for %q failed: %w", username, err)
	}
	return nil
}

func (s *StepsContext) actingAs(username string) error {
	if _, ok := s.sessions[username]; !ok {
		return fmt.Errorf("no session for %q; register or log in first", username)
	}
	s.actor = username
	return nil
}

// Resource steps

func (s *StepsContext) iCreateImpression(name string) error {
	err := s.request("POST", "/api/impressions", map[string]interface{}{
		"meta": map[string]interface{}{"name": name},
	})
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		var resp struct {
			ShortID string `json:"shortId"`
		}
		if err := json.Unmarshal(s.responseBody, &resp); err != nil {
			return err
		}
		s.shortIDs[name] = resp.ShortID
	}
	return nil
}

func (s *StepsContext) userOwnsImpressions(username, names string) error {
	previous := s.actor
	if err := s.actingAs(username); err != nil {
		return err
	}

	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if err := s.iCreateImpression(name); err != nil {
			return err
		}
		if err := s.responseStatusShouldBe(http.StatusOK); err != nil {
			return fmt.Errorf("creating %q: %w", name, err)
		}
	}

	s.actor = previous
	return nil
}

func (s *StepsContext) shortID(name string) (string, error) {
	shortID, ok := s.shortIDs[name]
	if !ok {
		return "", fmt.Errorf("no impression recorded under name %q", name)
	}
	return shortID, nil
}

func (s *StepsContext) iShareImpression(name, username string) error {
	shortID, err := s.shortID(name)
	if err != nil {
		return err
	}
	sess, ok := s.sessions[username]
	if !ok {
		return fmt.Errorf("no session for %q", username)
	}

	return s.request("PUT", "/api/impressions/"+shortID, map[string]interface{}{
		"meta": map[string]interface{}{"editors": []string{sess.key}},
	})
}

func (s *StepsContext) impressionIsBrowsable(name string) error {
	shortID, err := s.shortID(name)
	if err != nil {
		return err
	}
	if err := s.request("PUT", "/api/impressions/"+shortID, map[string]interface{}{
		"meta": map[string]interface{}{"browsers": []string{"*"}},
	}); err != nil {
		return err
	}
	return s.responseStatusShouldBe(http.StatusOK)
}

func (s *StepsContext) iFetchImpression(name string) error {
	shortID, err := s.shortID(name)
	if err != nil {
		return err
	}
	return s.request("GET", "/api/impressions/"+shortID, nil)
}

func (s *StepsContext) iUpdateImpression(name, description string) error {
	shortID, err := s.shortID(name)
	if err != nil {
		return err
	}
	return s.request("PUT", "/api/impressions/"+shortID, map[string]interface{}{
		"meta": map[string]interface{}{"description": description},
	})
}

func (s *StepsContext) iDeleteImpression(name string) error {
	shortID, err := s.shortID(name)
	if err != nil {
		return err
	}
	return s.request("DELETE", "/api/impressions/"+shortID, nil)
}

// Listing steps

func (s *StepsContext) iListWithRoleAndPattern(role, pattern string) error {
	return s.request("GET", "/api/impressions?role="+role+"&s="+pattern, nil)
}

func (s *StepsContext) iSearchImpressions(query string) error {
	return s.request("GET", "/api/impressions?q="+query, nil)
}

func (s *StepsContext) listingNames() (map[string]bool, error) {
	var listing []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(s.responseBody, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w (body: %s)", err, string(s.responseBody))
	}

	names := make(map[string]bool, len(listing))
	for _, entry := range listing {
		names[entry.Name] = true
	}
	return names, nil
}

func (s *StepsContext) listingShouldContain(name string) error {
	names, err := s.listingNames()
	if err != nil {
		return err
	}
	if !names[name] {
		return fmt.Errorf("listing does not contain %q: %s", name, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) listingShouldNotContain(name string) error {
	names, err := s.listingNames()
	if err != nil {
		return err
	}
	if names[name] {
		return fmt.Errorf("listing unexpectedly contains %q", name)
	}
	return nil
}

// Response steps

func (s *StepsContext) responseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) responseBodyShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected body to contain %q, got %q", expected, string(s.responseBody))
	}
	return nil
}
