package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the feature files against a live server. It is skipped
// unless FACEID_E2E_BASE_URL is set.
func TestFeatures(t *testing.T) {
	if os.Getenv("FACEID_E2E_BASE_URL") == "" {
		t.Skip("FACEID_E2E_BASE_URL not set")
	}

	tags := os.Getenv("FACEID_E2E_TAGS")
	if tags == "" {
		tags = "~@ledger"
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(sc *godog.ScenarioContext) {
			tc := NewTestContext()
			sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return ctx, nil
			})
			RegisterSteps(sc, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			Tags:     tags,
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("feature run failed")
	}
}
