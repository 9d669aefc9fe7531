// internal/core/domain/enums.go
package domain

// Status describes the terminal outcome of one enrichment run for one record.
// Exactly one status is assigned per record per run.
type Status string

const (
	// StatusNone means the record has not been processed yet.
	StatusNone Status = ""

	// StatusNoWebsite: no URL was supplied; assigned without network activity.
	StatusNoWebsite Status = "no_website"

	// StatusTier1Success: the regex scan over raw markup produced the email.
	StatusTier1Success Status = "tier1_success"

	// StatusTier2Success: the DOM scan (or contact-page hop) produced the email.
	StatusTier2Success Status = "tier2_success"

	// StatusTier3Success: the rendered-document scan produced the email.
	StatusTier3Success Status = "tier3_success"

	// StatusFailed: every tier declined or failed.
	StatusFailed Status = "failed"
)

// IsValid reports whether s is a known terminal status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNoWebsite, StatusTier1Success, StatusTier2Success, StatusTier3Success, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether s marks a completed record.
func (s Status) IsTerminal() bool {
	return s.IsValid()
}

// Found reports whether the status corresponds to a validated email.
func (s Status) Found() bool {
	switch s {
	case StatusTier1Success, StatusTier2Success, StatusTier3Success:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Method identifies which extraction strategy produced an email.
type Method string

const (
	MethodNone        Method = ""
	MethodTier1Regex  Method = "tier1_regex"
	MethodTier2Dom    Method = "tier2_dom"
	MethodTier3Render Method = "tier3_render"
)

// IsValid reports whether m names a known extraction method.
func (m Method) IsValid() bool {
	switch m {
	case MethodTier1Regex, MethodTier2Dom, MethodTier3Render:
		return true
	}
	return false
}

// SuccessStatus maps a method to the status stamped when it succeeds.
func (m Method) SuccessStatus() Status {
	switch m {
	case MethodTier1Regex:
		return StatusTier1Success
	case MethodTier2Dom:
		return StatusTier2Success
	case MethodTier3Render:
		return StatusTier3Success
	}
	return StatusNone
}

func (m Method) String() string {
	return string(m)
}
