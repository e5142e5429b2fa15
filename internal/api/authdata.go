package api

import (
	"fmt"
	"net/url"
	"strings"
)

// AuthData is the opaque credential bundle captured from an Android device,
// a URL-encoded key/value string. It carries everything needed to exchange
// a long-lived refresh token for a short-lived bearer token.
type AuthData struct {
	raw    string
	values url.Values
}

// ParseAuthData validates and parses the credential bundle.
func ParseAuthData(raw string) (*AuthData, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &AuthError{Err: fmt.Errorf("auth data is empty")}
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, &AuthError{Err: fmt.Errorf("malformed auth data: %w", err)}
	}
	ad := &AuthData{raw: raw, values: values}
	for _, required := range []string{"androidId", "Email", "Token"} {
		if ad.values.Get(required) == "" {
			return nil, &AuthError{Err: fmt.Errorf("auth data is missing %q", required)}
		}
	}
	return ad, nil
}

// Email returns the account the bundle belongs to.
func (a *AuthData) Email() string {
	return a.values.Get("Email")
}

// Language returns the device locale from the bundle, or "" if absent.
func (a *AuthData) Language() string {
	return a.values.Get("lang")
}

// tokenRequestForm builds the form body for the bearer-token exchange.
// The field set is deliberately explicit: forwarding the whole bundle can
// make the endpoint answer with an encrypted token.
func (a *AuthData) tokenRequestForm() url.Values {
	form := url.Values{}
	form.Set("androidId", a.values.Get("androidId"))
	form.Set("app", clientPackage)
	form.Set("client_sig", a.values.Get("client_sig"))
	form.Set("callerPkg", clientPackage)
	form.Set("callerSig", a.values.Get("callerSig"))
	form.Set("device_country", a.values.Get("device_country"))
	form.Set("Email", a.values.Get("Email"))
	form.Set("google_play_services_version", a.values.Get("google_play_services_version"))
	form.Set("lang", a.values.Get("lang"))
	form.Set("oauth2_foreground", a.values.Get("oauth2_foreground"))
	form.Set("sdk_version", a.values.Get("sdk_version"))
	form.Set("service", a.values.Get("service"))
	form.Set("Token", a.values.Get("Token"))
	return form
}
