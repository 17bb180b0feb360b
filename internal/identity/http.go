package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const defaultVerifyTimeout = 10 * time.Second

// HTTPVerifier verifies tokens against a remote identity endpoint.
type HTTPVerifier struct {
	verifyURL string
	client    *http.Client
}

// NewHTTPVerifier creates a verifier for the given endpoint. A zero timeout
// selects the built-in default so a dead backend fails closed instead of
// hanging the request.
func NewHTTPVerifier(verifyURL string, timeout time.Duration) *HTTPVerifier {
	if timeout == 0 {
		timeout = defaultVerifyTimeout
	}

	return &HTTPVerifier{
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
	}
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Verify implements Verifier.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (string, string, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return "", "", errors.Wrap(err, "failed to encode verify request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, bytes.NewReader(body))
	if err != nil {
		return "", "", errors.Wrap(err, "failed to build verify request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", "", errors.Wrap(ErrVerifierUnreachable, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", "", ErrVerifierRejected
	default:
		return "", "", errors.Wrapf(ErrVerifierUnreachable, "unexpected status %d", resp.StatusCode)
	}

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", "", errors.Wrap(ErrVerifierUnreachable, err.Error())
	}

	if decoded.UserID == "" {
		return "", "", ErrVerifierRejected
	}

	return decoded.UserID, decoded.Email, nil
}
