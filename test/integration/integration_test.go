//go:build integration

// Package integration runs the settlement and reversal features against a
// live server backed by SQLite, miniredis and local receipt storage.
package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"

	"github.com/pantry-ledger/backend/test/integration/steps"
)

// defaultTags leaves out scenarios marked work in progress.
const defaultTags = "~@wip"

// TestFeatures runs the feature files. GODOG_FEATURES narrows the run to a
// comma separated list of files and GODOG_TAGS replaces the tag filter.
func TestFeatures(t *testing.T) {
	opts := godog.Options{
		Format:   "pretty",
		Paths:    featurePaths(),
		Tags:     defaultTags,
		Output:   colors.Colored(os.Stdout),
		Strict:   true,
		TestingT: t,
		// Scenarios share one server, database and clock.
		Concurrency: 1,
	}
	if tags := os.Getenv("GODOG_TAGS"); tags != "" {
		opts.Tags = tags
	}

	suite := godog.TestSuite{
		Name:                 "pantry-ledger",
		ScenarioInitializer:  steps.InitializeScenario,
		TestSuiteInitializer: steps.InitializeTestSuite,
		Options:              &opts,
	}

	if suite.Run() != 0 {
		t.Fatal("pantry ledger features failed")
	}
}

func featurePaths() []string {
	selected := os.Getenv("GODOG_FEATURES")
	if selected == "" {
		return []string{"features"}
	}
	var paths []string
	for _, name := range strings.Split(selected, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if !strings.HasSuffix(name, ".feature") {
			name += ".feature"
		}
		paths = append(paths, "features/"+name)
	}
	return paths
}
