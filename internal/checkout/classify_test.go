package checkout

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxethreads/storefront-web/internal/api"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorUnknown},
		{"status 401", &api.APIError{Status: 401, Message: "unauthorized"}, ErrorAuthentication},
		{"status 403", &api.APIError{Status: 403, Message: "forbidden"}, ErrorAuthentication},
		{"status 400", &api.APIError{Status: 400, Message: "bad address"}, ErrorValidation},
		{"status 422", &api.APIError{Status: 422, Message: "unprocessable"}, ErrorValidation},
		{"status 500", &api.APIError{Status: 500, Message: "oops"}, ErrorSystem},
		{"status 503", &api.APIError{Status: 503, Message: "maintenance"}, ErrorSystem},
		{"status 404", &api.APIError{Status: 404, Message: "gone"}, ErrorUnknown},
		{"wrapped api error", fmt.Errorf("submit: %w", &api.APIError{Status: 401}), ErrorAuthentication},
		{"deadline exceeded", context.DeadlineExceeded, ErrorNetwork},
		{"net error", timeoutErr{}, ErrorNetwork},
		{"url error", &url.Error{Op: "Post", URL: "http://backend/checkout", Err: errors.New("refused")}, ErrorNetwork},
		{"dns error", &net.DNSError{Err: "no such host", Name: "backend"}, ErrorNetwork},
		{"401 in message", errors.New("request failed with status 401"), ErrorAuthentication},
		{"connection in message", errors.New("connection reset by peer"), ErrorNetwork},
		{"timeout in message", errors.New("timeout waiting for response"), ErrorNetwork},
		{"opaque", errors.New("something odd happened"), ErrorUnknown},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Classify(tc.err), tc.name)
	}
}

func TestParseErrorType(t *testing.T) {
	t.Parallel()

	require.Equal(t, ErrorCheckout, ParseErrorType("checkout_error"))
	require.Equal(t, ErrorValidation, ParseErrorType(" validation_error "))
	require.Equal(t, ErrorSystem, ParseErrorType("system_error"))
	require.Equal(t, ErrorUnknown, ParseErrorType(""))
	require.Equal(t, ErrorUnknown, ParseErrorType("weird_error"))
}

func TestSuggestionCoversEveryType(t *testing.T) {
	t.Parallel()

	types := []ErrorType{ErrorNetwork, ErrorAuthentication, ErrorValidation, ErrorCheckout, ErrorSystem, ErrorUnknown}
	seen := map[string]bool{}
	for _, typ := range types {
		s := Suggestion(typ)
		require.NotEmpty(t, s, typ)
		seen[s] = true
	}
	require.Len(t, seen, len(types))
}
