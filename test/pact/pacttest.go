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
	ProviderName = "marketplace-api"
	ConsumerName = "storefront-web"

	StateCatalogBaseline = "catalog baseline"
	StateProductExists   = "product p-101 exists"
	StateProductMissing  = "no product with id p-404"
	StateUsersBaseline   = "users baseline"
)

const (
	ExistingProductID = "p-101"
	MissingProductID  = "p-404"
	ExistingStoreID   = "s-101"

	ExampleProductName  = "Walnut Desk Lamp"
	ExampleProductPrice = "49.90"
	ExampleProductStock = 12
	ExampleProductImage = "https://example.pact/products/lamp.png"

	ExampleUserName     = "Pact Shopper"
	ExampleUserEmail    = "pact.shopper@example.com"
	ExampleUserPassword = "pact-pass"
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

// PactFile returns the canonical pact file path for the storefront consumer.
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

// ExampleRegisterPayload provides stable account data for auth interactions.
func ExampleRegisterPayload() map[string]any {
	return map[string]any{
		"name":     ExampleUserName,
		"email":    ExampleUserEmail,
		"password": ExampleUserPassword,
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
