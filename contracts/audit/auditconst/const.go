/*
Package auditconst provides constants shared by the Emissions Audit contract
and off-chain code working with it.
*/
package auditconst

// Error codes returned by the contract in failed results.
const (
	ErrNotAuthorized         = 100
	ErrInvalidReportID       = 101
	ErrInvalidCompany        = 102
	ErrAuditAlreadyPerformed = 104
	ErrInvalidEmissions      = 105
	ErrInvalidThreshold      = 106
	ErrAuthorityNotVerified  = 110
	ErrInvalidAuditType      = 111
	ErrBatchLimitExceeded    = 114
	ErrInvalidOracleData     = 115
	ErrInvalidIndustry       = 118
	ErrInvalidMetric         = 119
	ErrInvalidAuditResult    = 120
	ErrMaxAuditsExceeded     = 121
	// ErrInvalidUpdateParam is reserved and not returned by current version.
	ErrInvalidUpdateParam = 122
)

// Audit types.
const (
	AuditTypeAnnual    = "annual"
	AuditTypeQuarterly = "quarterly"
	AuditTypeMonthly   = "monthly"
)

// Emission metrics.
const (
	MetricCO2 = "CO2"
	MetricCH4 = "CH4"
	MetricN2O = "N2O"
)

const (
	// MaxIndustryLength is a maximum length of industry name in bytes.
	MaxIndustryLength = 50

	// MaxBatchLimit is an upper bound of the configurable batch limit.
	MaxBatchLimit = 100
)

// Default contract parameters.
const (
	DefaultMaxAudits      = 10000
	DefaultAuditFee       = 500
	DefaultBatchLimit     = 50
	DefaultAuditFrequency = 365
)

// Parameters of audits performed by batch requests. Company of such audits
// is the requesting auditor.
const (
	BatchEmissions  = 1000
	BatchThreshold  = 2000
	BatchAuditType  = AuditTypeAnnual
	BatchOracleData = 0
	BatchIndustry   = "energy"
	BatchMetric     = MetricCO2
)

// Notification names.
const (
	AuditPerformedNotification = "AuditPerformed"
	AuditUpdatedNotification   = "AuditUpdated"
	AuthoritySetNotification   = "AuthoritySet"
)
