// Package policy maps a verified tier to the operations it permits.
// Functions here are pure: no I/O, deterministic, and they never default
// to allow — an unrecognized tier is an error the caller must treat as deny.
package policy

import "github.com/practicelearn/course-portal/internal/domain"

// Machine-readable deny reasons, stable across the API surface.
const (
	ReasonUpgradeRequired  = "upgrade_required"
	ReasonNotAuthenticated = "not_authenticated"
)

type Decision struct {
	Allowed bool
	Reason  string // set only on deny
}

var allow = Decision{Allowed: true}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// CanReadModule decides whether tier may read a module that declares
// minTier. Preview callers are told upgrade_required for paid modules
// rather than a misleading not-found; the gateway still must not leak the
// module's contents alongside the reason.
func CanReadModule(tier, minTier domain.Tier) (Decision, error) {
	if !tier.Valid() {
		return deny(ReasonNotAuthenticated), domain.ErrUnrecognizedTier
	}
	if !minTier.Valid() {
		return deny(ReasonUpgradeRequired), domain.ErrUnrecognizedTier
	}
	if tier.AtLeast(minTier) {
		return allow, nil
	}
	return deny(ReasonUpgradeRequired), nil
}

// CanDownload gates file downloads: paid tiers only, regardless of which
// resource is being asked for.
func CanDownload(tier domain.Tier) (Decision, error) {
	if !tier.Valid() {
		return deny(ReasonNotAuthenticated), domain.ErrUnrecognizedTier
	}
	if tier.AtLeast(domain.TierOnlineOnly) {
		return allow, nil
	}
	return deny(ReasonUpgradeRequired), nil
}

// CanListMetadata allows any authenticated tier to list catalog metadata.
// Listing is a distinct operation from reading: the serialized form never
// includes section bodies, quiz content, or answer keys.
func CanListMetadata(tier domain.Tier) (Decision, error) {
	if !tier.Valid() {
		return deny(ReasonNotAuthenticated), domain.ErrUnrecognizedTier
	}
	return allow, nil
}
