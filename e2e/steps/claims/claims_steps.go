package claims

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
	Fixture(name string) ([]byte, error)
	Save(key, value string)
	Saved(key string) string
}

// RegisterSteps registers enrollment and lookup step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &claimsSteps{tc: tc}

	ctx.Step(`^I enroll "([^"]*)" as user "([^"]*)" with public key "([^"]*)"$`, steps.enroll)
	ctx.Step(`^I enroll "([^"]*)" without a user id$`, steps.enrollWithoutUserID)
	ctx.Step(`^I look up the public key for "([^"]*)"$`, steps.lookup)
	ctx.Step(`^I save the claim id$`, steps.saveClaimID)
	ctx.Step(`^the claim id should differ from the saved one$`, steps.claimIDShouldDiffer)
}

type claimsSteps struct {
	tc TestContext
}

func (s *claimsSteps) image(name string) (string, error) {
	raw, err := s.tc.Fixture(name)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (s *claimsSteps) enroll(ctx context.Context, fixture, userID, publicKey string) error {
	img, err := s.image(fixture)
	if err != nil {
		return err
	}
	return s.tc.POST("/extract", map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"did":        "did:example:" + userID,
				"user_id":    userID,
				"public_key": publicKey,
				"metadata":   `{"source":"e2e"}`,
				"image":      img,
			},
		},
	})
}

func (s *claimsSteps) enrollWithoutUserID(ctx context.Context, fixture string) error {
	img, err := s.image(fixture)
	if err != nil {
		return err
	}
	return s.tc.POST("/extract", map[string]any{
		"data": map[string]any{
			"attributes": map[string]any{
				"did":        "did:example:anon",
				"public_key": "pk",
				"metadata":   "{}",
				"image":      img,
			},
		},
	})
}

func (s *claimsSteps) lookup(ctx context.Context, fixture string) error {
	img, err := s.image(fixture)
	if err != nil {
		return err
	}
	return s.tc.POST("/pk-from-image", map[string]any{
		"data": map[string]any{"attributes": map[string]any{"image": img}},
	})
}

func (s *claimsSteps) claimID() (string, error) {
	v, err := s.tc.GetResponseField("data.attributes.claim_id")
	if err != nil {
		return "", err
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("claim_id is not a non-empty string: %v", v)
	}
	return id, nil
}

func (s *claimsSteps) saveClaimID(ctx context.Context) error {
	id, err := s.claimID()
	if err != nil {
		return err
	}
	s.tc.Save("claim_id", id)
	return nil
}

func (s *claimsSteps) claimIDShouldDiffer(ctx context.Context) error {
	id, err := s.claimID()
	if err != nil {
		return err
	}
	if id == s.tc.Saved("claim_id") {
		return fmt.Errorf("expected a new credential, got the saved one %q", id)
	}
	return nil
}
