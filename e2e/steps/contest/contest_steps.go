package contest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	GetResponseField(field string) (any, error)
	Fixture(name string) ([]byte, error)
}

// RegisterSteps registers contest step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &contestSteps{tc: tc}

	ctx.Step(`^I register "([^"]*)" as "([^"]*)" with proof fixture "([^"]*)"$`, steps.register)
	ctx.Step(`^I request the contest standings$`, steps.standings)
	ctx.Step(`^the feature vector should have (\d+) components$`, steps.featureVectorLength)
	ctx.Step(`^the standings should list "([^"]*)"$`, steps.standingsShouldList)
}

type contestSteps struct {
	tc TestContext
}

func (s *contestSteps) register(ctx context.Context, fixture, name, proofFixture string) error {
	img, err := s.tc.Fixture(fixture)
	if err != nil {
		return err
	}
	proof, err := s.tc.Fixture(proofFixture)
	if err != nil {
		return err
	}
	return s.tc.POST("/contest/register", map[string]any{
		"imageBase64": base64.StdEncoding.EncodeToString(img),
		"proof":       json.RawMessage(proof),
		"name":        name,
	})
}

func (s *contestSteps) standings(ctx context.Context) error {
	return s.tc.GET("/contest/winner")
}

func (s *contestSteps) featureVectorLength(ctx context.Context, n int) error {
	v, err := s.tc.GetResponseField("data.attributes.feature_vector")
	if err != nil {
		return err
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != n {
		return fmt.Errorf("expected %d components, got %v", n, v)
	}
	return nil
}

func (s *contestSteps) standingsShouldList(ctx context.Context, name string) error {
	v, err := s.tc.GetResponseField("participants")
	if err != nil {
		return err
	}
	list, _ := v.([]any)
	for _, p := range list {
		if m, ok := p.(map[string]any); ok && m["name"] == name {
			return nil
		}
	}
	return fmt.Errorf("participant %q not in standings %v", name, v)
}
