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
	ProviderName = "husnhira-api"
	ConsumerName = "husnhira-storefront"

	// RazorpayProviderName names the gateway when the API is the consumer.
	RazorpayProviderName = "razorpay-orders"

	StateOrdersBaseline = "no orders exist"
	StateIntentReady    = "the payment gateway accepts new orders"
	StateOTPReady       = "the SMS provider accepts messages"
	StateGatewayOrder   = "razorpay credentials are valid"
)

const (
	// GatewayKeyID and GatewaySecret are the test credentials the provider is started with.
	GatewayKeyID  = "rzp_test_pact"
	GatewaySecret = "pact_gateway_secret"

	IntentID  = "order_PACT0001"
	PaymentID = "pay_PACT0001"

	ExampleMobile = "9876543210"
	ExampleCoupon = "HUSN40"
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
	return PactFileFor(t, ConsumerName, ProviderName)
}

// PactFileFor returns the pact file path for an arbitrary consumer/provider pair.
func PactFileFor(t testing.TB, consumer, provider string) string {
	t.Helper()
	return filepath.Join(PactDir(t), consumer+"-"+provider+".json")
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

// ExampleCheckoutPayload is the order form posted before and after payment.
func ExampleCheckoutPayload() map[string]any {
	return map[string]any{
		"name":             "Asha Verma",
		"address":          "12 Lake Road, Pune 411001",
		"mobile_number":    ExampleMobile,
		"alternate_number": "",
		"coupon":           ExampleCoupon,
	}
}

// ExampleCODPayload is the cash-on-delivery form with its older field names.
func ExampleCODPayload() map[string]any {
	return map[string]any{
		"name":      "Asha Verma",
		"address":   "12 Lake Road, Pune 411001",
		"mobile":    ExampleMobile,
		"altNumber": "",
		"coupon":    ExampleCoupon,
	}
}

// ExampleVerificationPayload adds gateway callback fields to the checkout form.
func ExampleVerificationPayload(signature string) map[string]any {
	payload := ExampleCheckoutPayload()
	payload["order_id"] = IntentID
	payload["payment_id"] = PaymentID
	payload["signature"] = signature
	return payload
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
