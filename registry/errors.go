package registry

import (
	"errors"
	"strconv"

	"github.com/nspcc-dev/emissions-audit/contracts/audit/auditconst"
)

// Code is a numeric error code of the failed audit operation. Codes are the
// same as the ones returned by the Emissions Audit contract.
type Code int

// Error codes of audit operations.
const (
	ErrNotAuthorized         Code = auditconst.ErrNotAuthorized
	ErrInvalidReportID       Code = auditconst.ErrInvalidReportID
	ErrInvalidCompany        Code = auditconst.ErrInvalidCompany
	ErrAuditAlreadyPerformed Code = auditconst.ErrAuditAlreadyPerformed
	ErrInvalidEmissions      Code = auditconst.ErrInvalidEmissions
	ErrInvalidThreshold      Code = auditconst.ErrInvalidThreshold
	ErrAuthorityNotVerified  Code = auditconst.ErrAuthorityNotVerified
	ErrInvalidAuditType      Code = auditconst.ErrInvalidAuditType
	ErrBatchLimitExceeded    Code = auditconst.ErrBatchLimitExceeded
	ErrInvalidOracleData     Code = auditconst.ErrInvalidOracleData
	ErrInvalidIndustry       Code = auditconst.ErrInvalidIndustry
	ErrInvalidMetric         Code = auditconst.ErrInvalidMetric
	ErrInvalidAuditResult    Code = auditconst.ErrInvalidAuditResult
	ErrMaxAuditsExceeded     Code = auditconst.ErrMaxAuditsExceeded
	ErrInvalidUpdateParam    Code = auditconst.ErrInvalidUpdateParam
)

var codeDescriptions = map[Code]string{
	ErrNotAuthorized:         "not authorized",
	ErrInvalidReportID:       "invalid report id",
	ErrInvalidCompany:        "invalid company",
	ErrAuditAlreadyPerformed: "audit already performed",
	ErrInvalidEmissions:      "invalid emissions",
	ErrInvalidThreshold:      "invalid threshold",
	ErrAuthorityNotVerified:  "authority not verified",
	ErrInvalidAuditType:      "invalid audit type",
	ErrBatchLimitExceeded:    "batch limit exceeded",
	ErrInvalidOracleData:     "invalid oracle data",
	ErrInvalidIndustry:       "invalid industry",
	ErrInvalidMetric:         "invalid metric",
	ErrInvalidAuditResult:    "audit not found",
	ErrMaxAuditsExceeded:     "max audits exceeded",
	ErrInvalidUpdateParam:    "invalid update parameter",
}

// Error implements error interface.
func (c Code) Error() string {
	if d, ok := codeDescriptions[c]; ok {
		return d + " (" + strconv.Itoa(int(c)) + ")"
	}

	return "unknown audit error (" + strconv.Itoa(int(c)) + ")"
}

var (
	// ErrReservedPrincipal is returned when the authority is the reserved zero
	// script hash.
	ErrReservedPrincipal = errors.New("reserved principal")

	// ErrAuthorityAlreadySet is returned on the repeated authority setting.
	ErrAuthorityAlreadySet = errors.New("authority is already set")

	// ErrInvalidAuditFee is returned on negative fee setting.
	ErrInvalidAuditFee = errors.New("audit fee must not be negative")

	// ErrInvalidBatchLimit is returned on batch limit setting outside
	// (0, auditconst.MaxBatchLimit].
	ErrInvalidBatchLimit = errors.New("batch limit is out of range")
)

// CodeOf returns the code carried by err. The second value is false if err
// is not a Code error.
func CodeOf(err error) (Code, bool) {
	var c Code
	if errors.As(err, &c) {
		return c, true
	}

	return 0, false
}
