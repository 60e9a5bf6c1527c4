//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "dog-catalog-api"
	ConsumerName = "dogfinder-cli"

	StateCatalogBaseline = "catalog with example dogs"
	StateSignedIn        = "visitor signed in with the pact token"
)

// SessionToken is the cookie value the provider issues and accepts during verification.
const SessionToken = "pact-token"

const (
	SessionCookie = "fetch-access-token"

	HuskyID  = "pact-husky-1"
	BeagleID = "pact-beagle-1"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the CLI consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleDog is the record both sides agree on for HuskyID.
func ExampleDog() map[string]any {
	return map[string]any{
		"id":       HuskyID,
		"img":      "https://images.example.com/dogs/" + HuskyID + ".jpg",
		"name":     "Nova",
		"age":      3,
		"zip_code": "10001",
		"breed":    "Husky",
	}
}

// ExampleBeagle is the second seeded record.
func ExampleBeagle() map[string]any {
	return map[string]any{
		"id":       BeagleID,
		"img":      "https://images.example.com/dogs/" + BeagleID + ".jpg",
		"name":     "Biscuit",
		"age":      6,
		"zip_code": "94105",
		"breed":    "Beagle",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
