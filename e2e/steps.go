package e2e

import (
	"github.com/cucumber/godog"

	"faceid/e2e/steps/claims"
	"faceid/e2e/steps/common"
	"faceid/e2e/steps/contest"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Generic requests and response assertions
	common.RegisterSteps(ctx, tc)

	// Enrollment and lookup by face
	claims.RegisterSteps(ctx, tc)

	// Contest registration and standings
	contest.RegisterSteps(ctx, tc)
}
