package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_ErrorString(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodePaymentInit, "gateway unreachable", http.StatusBadGateway)

	want := "PAYMENT_INIT_ERROR: gateway unreachable (caused by: connection refused)"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to be reachable via errors.Is")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(VendorMismatch("v1", "v2")); got != CodeVendorMismatch {
		t.Fatalf("expected %s, got %s", CodeVendorMismatch, got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeInternal {
		t.Fatalf("expected foreign errors to map to %s, got %s", CodeInternal, got)
	}
}

func TestIsAppError_Wrapped(t *testing.T) {
	inner := Configuration("fee percentage unavailable", nil)
	outer := errors.Join(errors.New("step failed"), inner)

	appErr, ok := IsAppError(outer)
	if !ok {
		t.Fatalf("expected IsAppError to unwrap joined errors")
	}
	if appErr.Code != CodeConfiguration {
		t.Fatalf("expected code %s, got %s", CodeConfiguration, appErr.Code)
	}
}

func TestConstructors_StatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  *AppError
		want int
	}{
		{"validation", Validation("bad", nil), http.StatusUnprocessableEntity},
		{"configuration", Configuration("cfg", nil), http.StatusServiceUnavailable},
		{"vendor mismatch", VendorMismatch("a", "b"), http.StatusConflict},
		{"precondition", Precondition("no date"), http.StatusPreconditionFailed},
		{"unauthorized", Unauthorized("login required"), http.StatusUnauthorized},
		{"missing context", MissingContext("no booking"), http.StatusSeeOther},
		{"not found", NotFound("Cart item"), http.StatusNotFound},
		{"invalid input", InvalidInput("bad qty"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.StatusCode() != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, tc.err.StatusCode())
			}
		})
	}
}

func TestUnauthorized_CarriesRedirect(t *testing.T) {
	err := Unauthorized("login required")
	if err.Details["redirect"] != "/login" {
		t.Fatalf("expected redirect detail, got %v", err.Details)
	}
}

func TestBookingCreation_CarriesSupportReference(t *testing.T) {
	err := BookingCreation(errors.New("timeout"), "pay_123")
	if err.Details["support_reference"] != "pay_123" {
		t.Fatalf("expected support reference in details, got %v", err.Details)
	}
}
