package audit

import (
	"github.com/nspcc-dev/emissions-audit/common"
	"github.com/nspcc-dev/emissions-audit/contracts/audit/auditconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/ledger"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	// Audit is a recorded compliance check of the company emissions report.
	Audit struct {
		ReportID         int
		Company          interop.Hash160
		Emissions        int
		Threshold        int
		Timestamp        int
		Auditor          interop.Hash160
		Compliance       bool
		AuditType        string
		PenaltyTriggered bool
		RewardTriggered  bool
		OracleData       int
		Industry         string
		Metric           string
	}

	// AuditUpdate describes the latest change of the audit.
	AuditUpdate struct {
		Emissions int
		Threshold int
		Timestamp int
		Updater   interop.Hash160
	}

	// Result is returned by audit methods. Value is a method-specific payload
	// if OK is set and one of the auditconst error codes otherwise.
	Result struct {
		OK    bool
		Value int
	}
)

const (
	nextAuditIDKey    = 'n'
	maxAuditsKey      = 'm'
	auditFeeKey       = 'f'
	batchLimitKey     = 'l'
	auditFrequencyKey = 'q'
	authorityKey      = 'o'

	auditPrefix        = 'a'
	auditUpdatePrefix  = 'u'
	reportPrefix       = 'r'
	companyIndexPrefix = 'c'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		version := args[len(args)-1].(int)

		common.CheckVersion(version)

		return
	}

	var (
		maxAudits      = auditconst.DefaultMaxAudits
		auditFee       = auditconst.DefaultAuditFee
		batchLimit     = auditconst.DefaultBatchLimit
		auditFrequency = auditconst.DefaultAuditFrequency
	)

	if data != nil {
		args := data.([]any)
		if len(args) != 4 {
			panic("invalid number of deploy arguments")
		}

		maxAudits = args[0].(int)
		auditFee = args[1].(int)
		batchLimit = args[2].(int)
		auditFrequency = args[3].(int)
	}

	if maxAudits <= 0 {
		panic("max audits must be positive")
	}
	if auditFee < 0 {
		panic("audit fee must not be negative")
	}
	if !isValidBatchLimit(batchLimit) {
		panic("batch limit is out of range")
	}
	if auditFrequency <= 0 {
		panic("audit frequency must be positive")
	}

	storage.Put(ctx, maxAuditsKey, maxAudits)
	storage.Put(ctx, auditFeeKey, auditFee)
	storage.Put(ctx, batchLimitKey, batchLimit)
	storage.Put(ctx, auditFrequencyKey, auditFrequency)

	runtime.Log("audit contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic(common.ErrUpdateAccessDenied)
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("audit contract updated")
}

// SetAuthorityContract sets the account receiving audit fees. Authority can
// be set only once, zero hash is not accepted. Returns true on success.
//
// Produces AuthoritySet notification.
func SetAuthorityContract(authority interop.Hash160) bool {
	ctx := storage.GetContext()

	if !common.IsValidHash160(authority) || common.IsZeroHash160(authority) {
		return false
	}

	if storage.Get(ctx, authorityKey) != nil {
		return false
	}

	storage.Put(ctx, authorityKey, authority)

	runtime.Notify("AuthoritySet", authority)
	runtime.Log("audit authority has been set")

	return true
}

// SetAuditFee changes the fee charged for every audit. It requires authority
// to be set, negative fee is rejected. Returns true on success.
func SetAuditFee(fee int) bool {
	ctx := storage.GetContext()

	if storage.Get(ctx, authorityKey) == nil || fee < 0 {
		return false
	}

	storage.Put(ctx, auditFeeKey, fee)

	return true
}

// SetBatchLimit changes the maximum number of reports in a single BatchAudit
// call. It requires authority to be set, limit must be in (0, 100]. Returns
// true on success.
func SetBatchLimit(limit int) bool {
	ctx := storage.GetContext()

	if storage.Get(ctx, authorityKey) == nil || !isValidBatchLimit(limit) {
		return false
	}

	storage.Put(ctx, batchLimitKey, limit)

	return true
}

// PerformAudit records the audit of the company emissions report. It must be
// witnessed by the auditor who pays audit fee to the authority account.
//
// Result value is an identifier of the new audit. Failed result contains
// the code of the first failed check and does not change contract state.
//
// Produces AuditPerformed notification.
func PerformAudit(auditor interop.Hash160, reportID int, company interop.Hash160,
	emissions, threshold int, auditType string, oracleData int, industry, metric string) Result {
	ctx := storage.GetContext()

	return performAudit(ctx, auditor, reportID, company, emissions, threshold,
		auditType, oracleData, industry, metric)
}

// UpdateAudit changes emissions and threshold of the existing audit and
// recalculates its compliance. It can be invoked only by the original auditor.
//
// Result value is an identifier of the updated audit.
//
// Produces AuditUpdated notification.
func UpdateAudit(updater interop.Hash160, id int, emissions, threshold int) Result {
	ctx := storage.GetContext()

	key := storageKey(auditPrefix, id)
	data := storage.Get(ctx, key)
	if data == nil {
		return failure(auditconst.ErrInvalidAuditResult)
	}

	a := std.Deserialize(data.([]byte)).(Audit)
	if !common.HasWitness(updater) || !a.Auditor.Equals(updater) {
		return failure(auditconst.ErrNotAuthorized)
	}

	if emissions <= 0 {
		return failure(auditconst.ErrInvalidEmissions)
	}
	if threshold <= 0 {
		return failure(auditconst.ErrInvalidThreshold)
	}

	height := ledger.CurrentIndex()
	compliance := emissions < threshold

	a.Emissions = emissions
	a.Threshold = threshold
	a.Timestamp = height
	a.Compliance = compliance
	a.PenaltyTriggered = !compliance
	a.RewardTriggered = compliance

	common.SetSerialized(ctx, key, a)
	common.SetSerialized(ctx, storageKey(auditUpdatePrefix, id), AuditUpdate{
		Emissions: emissions,
		Threshold: threshold,
		Timestamp: height,
		Updater:   updater,
	})

	runtime.Notify("AuditUpdated", id, compliance)
	runtime.Log("audit has been updated")

	return Result{OK: true, Value: id}
}

// BatchAudit performs audits of the listed reports on behalf of the auditor
// with fixed audit parameters (see auditconst.Batch* constants), the auditor
// itself is the audited company.
//
// Reports are processed in order. Processing stops at the first failed audit
// and its code is returned; audits performed before it remain stored.
// Result value is the number of performed audits.
func BatchAudit(auditor interop.Hash160, reportIDs []int) Result {
	ctx := storage.GetContext()

	if len(reportIDs) > common.GetInt(ctx, batchLimitKey) {
		return failure(auditconst.ErrBatchLimitExceeded)
	}

	for i := range reportIDs {
		res := performAudit(ctx, auditor, reportIDs[i], auditor,
			auditconst.BatchEmissions,
			auditconst.BatchThreshold,
			auditconst.BatchAuditType,
			auditconst.BatchOracleData,
			auditconst.BatchIndustry,
			auditconst.BatchMetric,
		)
		if !res.OK {
			return res
		}
	}

	return Result{OK: true, Value: len(reportIDs)}
}

// GetAudit returns Audit structure with the given identifier or nil if there
// is no such audit.
func GetAudit(id int) any {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, storageKey(auditPrefix, id))
	if data == nil {
		return nil
	}

	return std.Deserialize(data.([]byte)).(Audit)
}

// GetAuditUpdate returns the latest AuditUpdate of the audit with the given
// identifier or nil if the audit has never been updated.
func GetAuditUpdate(id int) any {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, storageKey(auditUpdatePrefix, id))
	if data == nil {
		return nil
	}

	return std.Deserialize(data.([]byte)).(AuditUpdate)
}

// GetAuditByReport returns identifier of the audit performed for the report
// or nil if the report has not been audited.
func GetAuditByReport(reportID int) any {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, storageKey(reportPrefix, reportID))
	if data == nil {
		return nil
	}

	return std.Deserialize(data.([]byte)).(int)
}

// ListByCompany returns identifiers of all audits of the company. Order of
// identifiers is not specified.
func ListByCompany(company interop.Hash160) []int {
	ctx := storage.GetReadOnlyContext()

	var result []int

	prefix := append([]byte{companyIndexPrefix}, company...)
	it := storage.Find(ctx, prefix, storage.ValuesOnly)
	for iterator.Next(it) {
		result = append(result, std.Deserialize(iterator.Value(it).([]byte)).(int))
	}

	return result
}

// IterateByCompany returns iterator over identifiers of all audits of the
// company. Empty company hash iterates over audits of all companies.
func IterateByCompany(company interop.Hash160) iterator.Iterator {
	ctx := storage.GetReadOnlyContext()

	key := []byte{companyIndexPrefix}
	if len(company) != 0 {
		key = append(key, company...)
	}

	return storage.Find(ctx, key, storage.ValuesOnly|storage.DeserializeValues)
}

// GetAuditCount returns the number of performed audits. It is also
// the identifier of the next audit.
func GetAuditCount() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, nextAuditIDKey)
}

// AuditFee returns the fee charged for every audit.
func AuditFee() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, auditFeeKey)
}

// BatchLimit returns the maximum number of reports in BatchAudit call.
func BatchLimit() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, batchLimitKey)
}

// MaxAudits returns the maximum number of audits the contract can store.
func MaxAudits() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, maxAuditsKey)
}

// AuditFrequency returns the configured audit frequency in days.
func AuditFrequency() int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, auditFrequencyKey)
}

// Authority returns the account receiving audit fees or nil if it is not
// set yet.
func Authority() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()

	data := storage.Get(ctx, authorityKey)
	if data == nil {
		return nil
	}

	return data.(interop.Hash160)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func performAudit(ctx storage.Context, auditor interop.Hash160, reportID int, company interop.Hash160,
	emissions, threshold int, auditType string, oracleData int, industry, metric string) Result {
	id := common.GetInt(ctx, nextAuditIDKey)

	switch {
	case id >= common.GetInt(ctx, maxAuditsKey):
		return failure(auditconst.ErrMaxAuditsExceeded)
	case reportID <= 0:
		return failure(auditconst.ErrInvalidReportID)
	case !common.IsValidHash160(company) || common.IsZeroHash160(company):
		return failure(auditconst.ErrInvalidCompany)
	case emissions <= 0:
		return failure(auditconst.ErrInvalidEmissions)
	case threshold <= 0:
		return failure(auditconst.ErrInvalidThreshold)
	case !isValidAuditType(auditType):
		return failure(auditconst.ErrInvalidAuditType)
	case oracleData < 0:
		return failure(auditconst.ErrInvalidOracleData)
	case len(industry) == 0 || len(industry) > auditconst.MaxIndustryLength:
		return failure(auditconst.ErrInvalidIndustry)
	case !isValidMetric(metric):
		return failure(auditconst.ErrInvalidMetric)
	}

	reportKey := storageKey(reportPrefix, reportID)
	if storage.Get(ctx, reportKey) != nil {
		return failure(auditconst.ErrAuditAlreadyPerformed)
	}

	rawAuthority := storage.Get(ctx, authorityKey)
	if rawAuthority == nil {
		return failure(auditconst.ErrAuthorityNotVerified)
	}

	if !common.HasWitness(auditor) {
		return failure(auditconst.ErrNotAuthorized)
	}

	authority := rawAuthority.(interop.Hash160)
	fee := common.GetInt(ctx, auditFeeKey)

	if !gas.Transfer(auditor, authority, fee, nil) {
		panic("failed to transfer audit fee")
	}

	compliance := emissions < threshold

	common.SetSerialized(ctx, storageKey(auditPrefix, id), Audit{
		ReportID:         reportID,
		Company:          company,
		Emissions:        emissions,
		Threshold:        threshold,
		Timestamp:        ledger.CurrentIndex(),
		Auditor:          auditor,
		Compliance:       compliance,
		AuditType:        auditType,
		PenaltyTriggered: !compliance,
		RewardTriggered:  compliance,
		OracleData:       oracleData,
		Industry:         industry,
		Metric:           metric,
	})
	common.SetSerialized(ctx, reportKey, id)
	common.SetSerialized(ctx, companyIndexKey(company, id), id)
	storage.Put(ctx, nextAuditIDKey, id+1)

	runtime.Notify("AuditPerformed", id, reportID, company, compliance)
	runtime.Log("audit has been performed")

	return Result{OK: true, Value: id}
}

func failure(code int) Result {
	return Result{OK: false, Value: code}
}

func isValidAuditType(t string) bool {
	return t == auditconst.AuditTypeAnnual ||
		t == auditconst.AuditTypeQuarterly ||
		t == auditconst.AuditTypeMonthly
}

func isValidMetric(m string) bool {
	return m == auditconst.MetricCO2 ||
		m == auditconst.MetricCH4 ||
		m == auditconst.MetricN2O
}

func isValidBatchLimit(limit int) bool {
	return limit > 0 && limit <= auditconst.MaxBatchLimit
}

func storageKey(prefix byte, id int) []byte {
	return append([]byte{prefix}, convert.ToBytes(id)...)
}

func companyIndexKey(company interop.Hash160, id int) []byte {
	key := append([]byte{companyIndexPrefix}, company...)
	return append(key, convert.ToBytes(id)...)
}
