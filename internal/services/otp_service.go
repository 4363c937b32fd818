package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OTPService calls the external OTP gateway. The gateway owns code
// generation, delivery, expiry and attempt limits; this client only relays
// its boolean answer. Calls are single-shot, no retries.
type OTPService struct {
	baseURL string
	client  *http.Client
}

// NewOTPService creates an OTPService for the given gateway base URL.
func NewOTPService(baseURL string, timeout time.Duration) *OTPService {
	return &OTPService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type otpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RequestCode asks the gateway to dispatch a code to the phone. It returns
// whether the gateway accepted the request.
func (s *OTPService) RequestCode(phone string) (bool, error) {
	query := url.Values{"number": {phone}}
	return s.call("/api/sendotp", query)
}

// CheckCode asks the gateway whether the code is valid for the phone.
func (s *OTPService) CheckCode(phone, code string) (bool, error) {
	query := url.Values{"number": {phone}, "code": {code}}
	return s.call("/api/verifyotp", query)
}

func (s *OTPService) call(path string, query url.Values) (bool, error) {
	endpoint := s.baseURL + path + "?" + query.Encode()

	resp, err := s.client.Get(endpoint)
	if err != nil {
		return false, fmt.Errorf("otp gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("otp gateway: status %d, body: %s", resp.StatusCode, string(body))
	}

	var parsed otpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, fmt.Errorf("otp gateway unmarshal: %w", err)
	}

	return parsed.Success, nil
}
