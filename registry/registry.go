/*
Package registry implements an in-memory model of the Emissions Audit
contract.

Registry performs the same checks in the same order as the contract, keeps
the same state and returns the same error codes, but runs off-chain: caller
and block height are set explicitly and fee transfers are recorded instead of
being executed. It is used to preview invocation results and as a reference
model for the contract.

Registry is not safe for concurrent use.
*/
package registry

import (
	"sort"

	"github.com/nspcc-dev/emissions-audit/config"
	"github.com/nspcc-dev/emissions-audit/contracts/audit/auditconst"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Audit is a recorded compliance check of the company emissions report.
type Audit struct {
	ReportID         int64
	Company          util.Uint160
	Emissions        int64
	Threshold        int64
	Timestamp        uint32
	Auditor          util.Uint160
	Compliance       bool
	AuditType        string
	PenaltyTriggered bool
	RewardTriggered  bool
	OracleData       int64
	Industry         string
	Metric           string
}

// AuditUpdate describes the latest change of the audit.
type AuditUpdate struct {
	Emissions int64
	Threshold int64
	Timestamp uint32
	Updater   util.Uint160
}

// Transfer is a fee payment recorded by the registry.
type Transfer struct {
	Amount int64
	From   util.Uint160
	To     util.Uint160
}

// Request groups parameters of the audit.
type Request struct {
	ReportID   int64
	Company    util.Uint160
	Emissions  int64
	Threshold  int64
	AuditType  string
	OracleData int64
	Industry   string
	Metric     string
}

// Registry is an in-memory audit registry.
type Registry struct {
	log *zap.Logger

	caller util.Uint160
	height uint32

	nextAuditID    int64
	maxAudits      int64
	auditFee       int64
	batchLimit     int64
	auditFrequency int64

	authority    util.Uint160
	authoritySet bool

	audits    map[int64]Audit
	updates   map[int64]AuditUpdate
	byReport  map[int64]int64
	transfers []Transfer
}

// New returns an empty registry with the given parameters. Nil logger
// disables logging. Parameters are expected to be valid, see
// config.Audit.Validate.
func New(log *zap.Logger, cfg config.Audit) *Registry {
	if log == nil {
		log = zap.NewNop()
	}

	return &Registry{
		log:            log,
		maxAudits:      cfg.MaxAudits,
		auditFee:       cfg.AuditFee,
		batchLimit:     cfg.BatchLimit,
		auditFrequency: cfg.AuditFrequency,
		audits:         make(map[int64]Audit),
		updates:        make(map[int64]AuditUpdate),
		byReport:       make(map[int64]int64),
	}
}

// SetCaller sets the account performing subsequent operations.
func (r *Registry) SetCaller(caller util.Uint160) {
	r.caller = caller
}

// SetBlockHeight sets the height used as the timestamp of subsequent
// operations.
func (r *Registry) SetBlockHeight(height uint32) {
	r.height = height
}

// SetAuthorityContract sets the account receiving audit fees. Authority can
// be set only once, zero script hash is rejected.
func (r *Registry) SetAuthorityContract(authority util.Uint160) error {
	if authority.Equals(util.Uint160{}) {
		return ErrReservedPrincipal
	}

	if r.authoritySet {
		return ErrAuthorityAlreadySet
	}

	r.authority = authority
	r.authoritySet = true

	r.log.Info("audit authority has been set",
		zap.String("authority", address.Uint160ToString(authority)))

	return nil
}

// SetAuditFee changes the audit fee. It requires authority to be set.
func (r *Registry) SetAuditFee(fee int64) error {
	if !r.authoritySet {
		return ErrAuthorityNotVerified
	}

	if fee < 0 {
		return ErrInvalidAuditFee
	}

	r.auditFee = fee

	return nil
}

// SetBatchLimit changes the maximum number of reports in a batch. It requires
// authority to be set.
func (r *Registry) SetBatchLimit(limit int64) error {
	if !r.authoritySet {
		return ErrAuthorityNotVerified
	}

	if limit <= 0 || limit > auditconst.MaxBatchLimit {
		return ErrInvalidBatchLimit
	}

	r.batchLimit = limit

	return nil
}

// PerformAudit records the audit made by the current caller and returns its
// identifier. Audit fee is transferred from the caller to the authority.
// Failed audit returns Code error and changes nothing.
func (r *Registry) PerformAudit(req Request) (int64, error) {
	id, err := r.performAudit(req)
	if err != nil {
		r.log.Debug("audit rejected",
			zap.Int64("report", req.ReportID),
			zap.Error(err))

		return 0, err
	}

	r.log.Debug("audit has been performed",
		zap.Int64("id", id),
		zap.Int64("report", req.ReportID),
		zap.String("company", address.Uint160ToString(req.Company)))

	return id, nil
}

func (r *Registry) performAudit(req Request) (int64, error) {
	switch {
	case r.nextAuditID >= r.maxAudits:
		return 0, ErrMaxAuditsExceeded
	case req.ReportID <= 0:
		return 0, ErrInvalidReportID
	case req.Company.Equals(util.Uint160{}):
		return 0, ErrInvalidCompany
	case req.Emissions <= 0:
		return 0, ErrInvalidEmissions
	case req.Threshold <= 0:
		return 0, ErrInvalidThreshold
	case !isValidAuditType(req.AuditType):
		return 0, ErrInvalidAuditType
	case req.OracleData < 0:
		return 0, ErrInvalidOracleData
	case len(req.Industry) == 0 || len(req.Industry) > auditconst.MaxIndustryLength:
		return 0, ErrInvalidIndustry
	case !isValidMetric(req.Metric):
		return 0, ErrInvalidMetric
	}

	if _, ok := r.byReport[req.ReportID]; ok {
		return 0, ErrAuditAlreadyPerformed
	}

	if !r.authoritySet {
		return 0, ErrAuthorityNotVerified
	}

	r.transfers = append(r.transfers, Transfer{
		Amount: r.auditFee,
		From:   r.caller,
		To:     r.authority,
	})

	id := r.nextAuditID
	compliance := req.Emissions < req.Threshold

	r.audits[id] = Audit{
		ReportID:         req.ReportID,
		Company:          req.Company,
		Emissions:        req.Emissions,
		Threshold:        req.Threshold,
		Timestamp:        r.height,
		Auditor:          r.caller,
		Compliance:       compliance,
		AuditType:        req.AuditType,
		PenaltyTriggered: !compliance,
		RewardTriggered:  compliance,
		OracleData:       req.OracleData,
		Industry:         req.Industry,
		Metric:           req.Metric,
	}
	r.byReport[req.ReportID] = id
	r.nextAuditID++

	return id, nil
}

// UpdateAudit changes emissions and threshold of the audit and recalculates
// its compliance. Only the original auditor can update the audit.
func (r *Registry) UpdateAudit(id, emissions, threshold int64) error {
	a, ok := r.audits[id]
	if !ok {
		return ErrInvalidAuditResult
	}

	if !a.Auditor.Equals(r.caller) {
		return ErrNotAuthorized
	}

	if emissions <= 0 {
		return ErrInvalidEmissions
	}

	if threshold <= 0 {
		return ErrInvalidThreshold
	}

	compliance := emissions < threshold

	a.Emissions = emissions
	a.Threshold = threshold
	a.Timestamp = r.height
	a.Compliance = compliance
	a.PenaltyTriggered = !compliance
	a.RewardTriggered = compliance

	r.audits[id] = a
	r.updates[id] = AuditUpdate{
		Emissions: emissions,
		Threshold: threshold,
		Timestamp: r.height,
		Updater:   r.caller,
	}

	r.log.Debug("audit has been updated",
		zap.Int64("id", id),
		zap.Bool("compliance", compliance))

	return nil
}

// BatchAudit performs audits of the listed reports with the fixed batch
// parameters, the caller is both the auditor and the audited company. It
// returns the number of performed audits. Processing stops at the first
// failure, audits performed before it are kept and counted in the result.
func (r *Registry) BatchAudit(reportIDs []int64) (int, error) {
	if int64(len(reportIDs)) > r.batchLimit {
		return 0, ErrBatchLimitExceeded
	}

	for i := range reportIDs {
		_, err := r.PerformAudit(Request{
			ReportID:   reportIDs[i],
			Company:    r.caller,
			Emissions:  auditconst.BatchEmissions,
			Threshold:  auditconst.BatchThreshold,
			AuditType:  auditconst.BatchAuditType,
			OracleData: auditconst.BatchOracleData,
			Industry:   auditconst.BatchIndustry,
			Metric:     auditconst.BatchMetric,
		})
		if err != nil {
			return i, err
		}
	}

	return len(reportIDs), nil
}

// GetAudit returns the audit by its identifier.
func (r *Registry) GetAudit(id int64) (Audit, bool) {
	a, ok := r.audits[id]
	return a, ok
}

// GetAuditUpdate returns the latest update of the audit.
func (r *Registry) GetAuditUpdate(id int64) (AuditUpdate, bool) {
	u, ok := r.updates[id]
	return u, ok
}

// GetAuditByReport returns identifier of the report audit.
func (r *Registry) GetAuditByReport(reportID int64) (int64, bool) {
	id, ok := r.byReport[reportID]
	return id, ok
}

// ListByCompany returns identifiers of the company audits in ascending order.
func (r *Registry) ListByCompany(company util.Uint160) []int64 {
	var res []int64

	for id, a := range r.audits {
		if a.Company.Equals(company) {
			res = append(res, id)
		}
	}

	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })

	return res
}

// AuditCount returns the number of performed audits.
func (r *Registry) AuditCount() int64 {
	return r.nextAuditID
}

// AuditFee returns the current audit fee.
func (r *Registry) AuditFee() int64 {
	return r.auditFee
}

// BatchLimit returns the current batch limit.
func (r *Registry) BatchLimit() int64 {
	return r.batchLimit
}

// MaxAudits returns the maximum number of audits.
func (r *Registry) MaxAudits() int64 {
	return r.maxAudits
}

// AuditFrequency returns the configured audit frequency.
func (r *Registry) AuditFrequency() int64 {
	return r.auditFrequency
}

// Authority returns the authority account if it is set.
func (r *Registry) Authority() (util.Uint160, bool) {
	return r.authority, r.authoritySet
}

// Transfers returns all recorded fee transfers in order.
func (r *Registry) Transfers() []Transfer {
	res := make([]Transfer, len(r.transfers))
	copy(res, r.transfers)

	return res
}

func isValidAuditType(t string) bool {
	switch t {
	case auditconst.AuditTypeAnnual, auditconst.AuditTypeQuarterly, auditconst.AuditTypeMonthly:
		return true
	default:
		return false
	}
}

func isValidMetric(m string) bool {
	switch m {
	case auditconst.MetricCO2, auditconst.MetricCH4, auditconst.MetricN2O:
		return true
	default:
		return false
	}
}
