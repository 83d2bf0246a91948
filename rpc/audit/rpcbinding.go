// Package audit contains RPC wrappers for Emissions Audit contract.
package audit

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Audit is a contract-specific audit.Audit type used by its methods.
type Audit struct {
	ReportID         *big.Int
	Company          util.Uint160
	Emissions        *big.Int
	Threshold        *big.Int
	Timestamp        *big.Int
	Auditor          util.Uint160
	Compliance       bool
	AuditType        string
	PenaltyTriggered bool
	RewardTriggered  bool
	OracleData       *big.Int
	Industry         string
	Metric           string
}

// AuditUpdate is a contract-specific audit.AuditUpdate type used by its methods.
type AuditUpdate struct {
	Emissions *big.Int
	Threshold *big.Int
	Timestamp *big.Int
	Updater   util.Uint160
}

// Result is a contract-specific audit.Result type used by its methods.
type Result struct {
	OK    bool
	Value *big.Int
}

// AuditPerformedEvent represents "AuditPerformed" event emitted by the contract.
type AuditPerformedEvent struct {
	ID         *big.Int
	ReportID   *big.Int
	Company    util.Uint160
	Compliance bool
}

// AuditUpdatedEvent represents "AuditUpdated" event emitted by the contract.
type AuditUpdatedEvent struct {
	ID         *big.Int
	Compliance bool
}

// AuthoritySetEvent represents "AuthoritySet" event emitted by the contract.
type AuthoritySetEvent struct {
	Authority util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetAudit invokes `getAudit` method of contract. Nil is returned for
// a missing audit.
func (c *ContractReader) GetAudit(id *big.Int) (*Audit, error) {
	return itemToAudit(unwrap.Item(c.invoker.Call(c.hash, "getAudit", id)))
}

// GetAuditUpdate invokes `getAuditUpdate` method of contract. Nil is
// returned if audit has never been updated.
func (c *ContractReader) GetAuditUpdate(id *big.Int) (*AuditUpdate, error) {
	return itemToAuditUpdate(unwrap.Item(c.invoker.Call(c.hash, "getAuditUpdate", id)))
}

// GetAuditByReport invokes `getAuditByReport` method of contract. Nil is
// returned if report has not been audited.
func (c *ContractReader) GetAuditByReport(reportID *big.Int) (*big.Int, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "getAuditByReport", reportID))
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	return item.TryInteger()
}

// ListByCompany invokes `listByCompany` method of contract.
func (c *ContractReader) ListByCompany(company util.Uint160) ([]*big.Int, error) {
	return unwrap.ArrayOfBigInts(c.invoker.Call(c.hash, "listByCompany", company))
}

// IterateByCompany invokes `iterateByCompany` method of contract.
func (c *ContractReader) IterateByCompany(company util.Uint160) (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "iterateByCompany", company))
}

// IterateByCompanyExpanded is similar to IterateByCompany (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) IterateByCompanyExpanded(company util.Uint160, _numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "iterateByCompany", _numOfIteratorItems, company))
}

// CompanyAudits traverses all audit identifiers of the company using
// iterator session and terminates the session after. Identifiers are
// requested in pages of the given size.
func (c *ContractReader) CompanyAudits(company util.Uint160, pageSize int) ([]*big.Int, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}

	sid, iter, err := c.IterateByCompany(company)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.invoker.TerminateSession(sid) }()

	var res []*big.Int
	for {
		items, err := c.invoker.TraverseIterator(sid, &iter, pageSize)
		if err != nil {
			return nil, fmt.Errorf("traverse iterator: %w", err)
		}

		for i := range items {
			id, err := items[i].TryInteger()
			if err != nil {
				return nil, fmt.Errorf("item #%d: %w", len(res), err)
			}
			res = append(res, id)
		}

		if len(items) < pageSize {
			return res, nil
		}
	}
}

// GetAuditCount invokes `getAuditCount` method of contract.
func (c *ContractReader) GetAuditCount() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getAuditCount"))
}

// AuditFee invokes `auditFee` method of contract.
func (c *ContractReader) AuditFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "auditFee"))
}

// BatchLimit invokes `batchLimit` method of contract.
func (c *ContractReader) BatchLimit() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "batchLimit"))
}

// MaxAudits invokes `maxAudits` method of contract.
func (c *ContractReader) MaxAudits() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "maxAudits"))
}

// AuditFrequency invokes `auditFrequency` method of contract.
func (c *ContractReader) AuditFrequency() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "auditFrequency"))
}

// Authority invokes `authority` method of contract. The second value is
// false if authority is not set yet.
func (c *ContractReader) Authority() (util.Uint160, bool, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "authority"))
	if err != nil {
		return util.Uint160{}, false, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, false, nil
	}
	h, err := itemToUint160(item)
	if err != nil {
		return util.Uint160{}, false, err
	}
	return h, true, nil
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// SetAuthorityContract creates a transaction invoking `setAuthorityContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetAuthorityContract(authority util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setAuthorityContract", authority)
}

// SetAuthorityContractTransaction creates a transaction invoking `setAuthorityContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetAuthorityContractTransaction(authority util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setAuthorityContract", authority)
}

// SetAuthorityContractUnsigned creates a transaction invoking `setAuthorityContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetAuthorityContractUnsigned(authority util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setAuthorityContract", nil, authority)
}

// SetAuditFee creates a transaction invoking `setAuditFee` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetAuditFee(fee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setAuditFee", fee)
}

// SetAuditFeeTransaction creates a transaction invoking `setAuditFee` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetAuditFeeTransaction(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setAuditFee", fee)
}

// SetAuditFeeUnsigned creates a transaction invoking `setAuditFee` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetAuditFeeUnsigned(fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setAuditFee", nil, fee)
}

// SetBatchLimit creates a transaction invoking `setBatchLimit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetBatchLimit(limit *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setBatchLimit", limit)
}

// SetBatchLimitTransaction creates a transaction invoking `setBatchLimit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetBatchLimitTransaction(limit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setBatchLimit", limit)
}

// SetBatchLimitUnsigned creates a transaction invoking `setBatchLimit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetBatchLimitUnsigned(limit *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setBatchLimit", nil, limit)
}

// PerformAudit creates a transaction invoking `performAudit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) PerformAudit(auditor util.Uint160, reportID *big.Int, company util.Uint160, emissions *big.Int, threshold *big.Int, auditType string, oracleData *big.Int, industry string, metric string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "performAudit", auditor, reportID, company, emissions, threshold, auditType, oracleData, industry, metric)
}

// PerformAuditTransaction creates a transaction invoking `performAudit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) PerformAuditTransaction(auditor util.Uint160, reportID *big.Int, company util.Uint160, emissions *big.Int, threshold *big.Int, auditType string, oracleData *big.Int, industry string, metric string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "performAudit", auditor, reportID, company, emissions, threshold, auditType, oracleData, industry, metric)
}

// PerformAuditUnsigned creates a transaction invoking `performAudit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) PerformAuditUnsigned(auditor util.Uint160, reportID *big.Int, company util.Uint160, emissions *big.Int, threshold *big.Int, auditType string, oracleData *big.Int, industry string, metric string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "performAudit", nil, auditor, reportID, company, emissions, threshold, auditType, oracleData, industry, metric)
}

// UpdateAudit creates a transaction invoking `updateAudit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateAudit(updater util.Uint160, id *big.Int, emissions *big.Int, threshold *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateAudit", updater, id, emissions, threshold)
}

// UpdateAuditTransaction creates a transaction invoking `updateAudit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateAuditTransaction(updater util.Uint160, id *big.Int, emissions *big.Int, threshold *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateAudit", updater, id, emissions, threshold)
}

// UpdateAuditUnsigned creates a transaction invoking `updateAudit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateAuditUnsigned(updater util.Uint160, id *big.Int, emissions *big.Int, threshold *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateAudit", nil, updater, id, emissions, threshold)
}

// BatchAudit creates a transaction invoking `batchAudit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) BatchAudit(auditor util.Uint160, reportIDs []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "batchAudit", auditor, reportIDs)
}

// BatchAuditTransaction creates a transaction invoking `batchAudit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) BatchAuditTransaction(auditor util.Uint160, reportIDs []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "batchAudit", auditor, reportIDs)
}

// BatchAuditUnsigned creates a transaction invoking `batchAudit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) BatchAuditUnsigned(auditor util.Uint160, reportIDs []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "batchAudit", nil, auditor, reportIDs)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// ResultFromApplicationLog retrieves Result returned by the audit method
// invocation from the first execution of the provided [result.ApplicationLog].
func ResultFromApplicationLog(log *result.ApplicationLog) (*Result, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}
	if len(log.Executions) == 0 {
		return nil, errors.New("no executions")
	}

	ex := log.Executions[0]
	if ex.FaultException != "" {
		return nil, fmt.Errorf("execution failed: %s", ex.FaultException)
	}
	if len(ex.Stack) != 1 {
		return nil, fmt.Errorf("unexpected stack size %d", len(ex.Stack))
	}

	res := new(Result)
	err := res.FromStackItem(ex.Stack[0])
	if err != nil {
		return nil, err
	}
	return res, nil
}

// itemToAudit converts stack item into *Audit.
func itemToAudit(item stackitem.Item, err error) (*Audit, error) {
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	var res = new(Audit)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Audit from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Audit) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 13 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.ReportID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReportID: %w", err)
	}

	index++
	res.Company, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Company: %w", err)
	}

	index++
	res.Emissions, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Emissions: %w", err)
	}

	index++
	res.Threshold, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Threshold: %w", err)
	}

	index++
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	index++
	res.Auditor, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Auditor: %w", err)
	}

	index++
	res.Compliance, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Compliance: %w", err)
	}

	index++
	res.AuditType, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field AuditType: %w", err)
	}

	index++
	res.PenaltyTriggered, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field PenaltyTriggered: %w", err)
	}

	index++
	res.RewardTriggered, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field RewardTriggered: %w", err)
	}

	index++
	res.OracleData, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OracleData: %w", err)
	}

	index++
	res.Industry, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Industry: %w", err)
	}

	index++
	res.Metric, err = itemToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Metric: %w", err)
	}

	return nil
}

// itemToAuditUpdate converts stack item into *AuditUpdate.
func itemToAuditUpdate(item stackitem.Item, err error) (*AuditUpdate, error) {
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	var res = new(AuditUpdate)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of AuditUpdate from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *AuditUpdate) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Emissions, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Emissions: %w", err)
	}

	index++
	res.Threshold, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Threshold: %w", err)
	}

	index++
	res.Timestamp, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Timestamp: %w", err)
	}

	index++
	res.Updater, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Updater: %w", err)
	}

	return nil
}

// FromStackItem retrieves fields of Result from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Result) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.OK, err = arr[0].TryBool()
	if err != nil {
		return fmt.Errorf("field OK: %w", err)
	}

	res.Value, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Value: %w", err)
	}

	return nil
}

// AuditPerformedEventsFromApplicationLog retrieves a set of all emitted events
// with "AuditPerformed" name from the provided [result.ApplicationLog].
func AuditPerformedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AuditPerformedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AuditPerformedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AuditPerformed" {
				continue
			}
			event := new(AuditPerformedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AuditPerformedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AuditPerformedEvent or
// returns an error if it's not possible to do to so.
func (e *AuditPerformedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.ID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	e.ReportID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ReportID: %w", err)
	}

	index++
	e.Company, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Company: %w", err)
	}

	index++
	e.Compliance, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Compliance: %w", err)
	}

	return nil
}

// AuditUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "AuditUpdated" name from the provided [result.ApplicationLog].
func AuditUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*AuditUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AuditUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AuditUpdated" {
				continue
			}
			event := new(AuditUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AuditUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AuditUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *AuditUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	e.ID, err = arr[0].TryInteger()
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	e.Compliance, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field Compliance: %w", err)
	}

	return nil
}

// AuthoritySetEventsFromApplicationLog retrieves a set of all emitted events
// with "AuthoritySet" name from the provided [result.ApplicationLog].
func AuthoritySetEventsFromApplicationLog(log *result.ApplicationLog) ([]*AuthoritySetEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*AuthoritySetEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "AuthoritySet" {
				continue
			}
			event := new(AuthoritySetEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize AuthoritySetEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to AuthoritySetEvent or
// returns an error if it's not possible to do to so.
func (e *AuthoritySetEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	e.Authority, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Authority: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	u, err := util.Uint160DecodeBytesBE(b)
	if err != nil {
		return util.Uint160{}, err
	}
	return u, nil
}

func itemToString(item stackitem.Item) (string, error) {
	b, err := item.TryBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("not a UTF-8 string")
	}
	return string(b), nil
}
