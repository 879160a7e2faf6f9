package attendance

import "errors"

// Error taxonomy for portal access and scraping.
var (
	// ErrStructuralScrape means an expected marker or column is missing: the
	// portal layout changed.
	ErrStructuralScrape = errors.New("expected portal markup not found")
	// ErrAuthenticationFailed means login did not yield an authorized page.
	ErrAuthenticationFailed = errors.New("portal login failed")
	// ErrSessionTimeout is reported by the portal on a stale login form.
	ErrSessionTimeout = errors.New("portal session timed out")
	// ErrTransport wraps network failures talking to the portal.
	ErrTransport = errors.New("portal request failed")
	// ErrCredentialsMissing means no usable account is configured.
	ErrCredentialsMissing = errors.New("portal credentials are not configured")
	// ErrStampFailed means the stamp request returned a page without the stamp.
	ErrStampFailed = errors.New("time stamp was not recorded")
)
