package types

// ResolverProblems describes how the desktop routes YouTube links.
type ResolverProblems struct {
	WatchLaterIsDefault    bool `json:"watch_later_is_default"`
	VerifiedDomainsMissing int  `json:"verified_domains_missing"`
}

func (p ResolverProblems) NeedsSetup() bool {
	return !p.WatchLaterIsDefault || p.VerifiedDomainsMissing > 0
}
