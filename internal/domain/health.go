package domain

// CheckStatus grades a single doctor check.
type CheckStatus string

const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckFail CheckStatus = "fail"
)

// HealthCheck is one doctor finding.
type HealthCheck struct {
	Name   string
	Status CheckStatus
	Detail string
}

// HealthReport aggregates doctor findings.
type HealthReport struct {
	Checks []HealthCheck
}

// Healthy reports whether no check failed outright.
func (r HealthReport) Healthy() bool {
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			return false
		}
	}
	return true
}
