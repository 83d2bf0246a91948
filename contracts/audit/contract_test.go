package audit_test

import (
	"math/big"
	"testing"

	"github.com/nspcc-dev/emissions-audit/common"
	"github.com/nspcc-dev/emissions-audit/config"
	"github.com/nspcc-dev/emissions-audit/contracts/audit/auditconst"
	"github.com/nspcc-dev/emissions-audit/registry"
	rpcaudit "github.com/nspcc-dev/emissions-audit/rpc/audit"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const ctrPath = "."

var (
	authority = util.Uint160{0xa1, 0xb2, 0xc3}
	company   = util.Uint160{0x0c}
)

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func newAuditInvoker(t *testing.T, data any) *neotest.ContractInvoker {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, ctrPath, "config.yml")
	e.DeployContract(t, ctr, data)
	return e.CommitteeInvoker(ctr.Hash)
}

// newAuditorInvoker deploys the contract, sets authority and returns invoker
// signed by a fresh funded auditor account.
func newAuditorInvoker(t *testing.T, data any) (*neotest.ContractInvoker, util.Uint160) {
	c := newAuditInvoker(t, data)
	c.Invoke(t, true, "setAuthorityContract", authority)

	acc := c.NewAccount(t)
	return c.WithSigners(acc), acc.ScriptHash()
}

// invokeAudit persists method invocation and returns decoded result with
// emitted notifications.
func invokeAudit(t *testing.T, c *neotest.ContractInvoker, method string, args ...any) (rpcaudit.Result, []state.NotificationEvent) {
	tx := c.PrepareInvoke(t, method, args...)
	c.AddNewBlock(t, tx)
	aer := c.CheckHalt(t, tx.Hash())
	require.Len(t, aer.Stack, 1)

	var res rpcaudit.Result
	require.NoError(t, res.FromStackItem(aer.Stack[0]))

	return res, aer.Events
}

func requireOK(t *testing.T, res rpcaudit.Result, value int64) {
	require.True(t, res.OK, "unexpected failure code %s", res.Value)
	require.Equal(t, value, res.Value.Int64())
}

func requireCode(t *testing.T, res rpcaudit.Result, code int64) {
	require.False(t, res.OK, "unexpected success with value %s", res.Value)
	require.Equal(t, code, res.Value.Int64())
}

func getAudit(t *testing.T, c *neotest.ContractInvoker, id int64) *rpcaudit.Audit {
	s, err := c.TestInvoke(t, "getAudit", id)
	require.NoError(t, err)

	item := s.Top().Item()
	if _, ok := item.(stackitem.Null); ok {
		return nil
	}

	a := new(rpcaudit.Audit)
	require.NoError(t, a.FromStackItem(item))
	return a
}

func performArgs(auditor util.Uint160, reportID int64) []any {
	return []any{auditor, reportID, company, int64(1000), int64(2000),
		auditconst.AuditTypeAnnual, int64(0), "energy", auditconst.MetricCO2}
}

func TestAuditDeploy(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c := newAuditInvoker(t, nil)

		c.Invoke(t, auditconst.DefaultMaxAudits, "maxAudits")
		c.Invoke(t, auditconst.DefaultAuditFee, "auditFee")
		c.Invoke(t, auditconst.DefaultBatchLimit, "batchLimit")
		c.Invoke(t, auditconst.DefaultAuditFrequency, "auditFrequency")
		c.Invoke(t, 0, "getAuditCount")
		c.Invoke(t, stackitem.Null{}, "authority")
		c.Invoke(t, common.Version, "version")
	})

	t.Run("config", func(t *testing.T) {
		cfg := config.Audit{MaxAudits: 5, AuditFee: 10, BatchLimit: 3, AuditFrequency: 90}
		c := newAuditInvoker(t, cfg.DeployData())

		c.Invoke(t, 5, "maxAudits")
		c.Invoke(t, 10, "auditFee")
		c.Invoke(t, 3, "batchLimit")
		c.Invoke(t, 90, "auditFrequency")
	})

	t.Run("invalid", func(t *testing.T) {
		e := newExecutor(t)
		ctr := neotest.CompileFile(t, e.CommitteeHash, ctrPath, "config.yml")

		for _, tc := range []struct {
			data []any
			err  string
		}{
			{[]any{int64(1), int64(2)}, "invalid number of deploy arguments"},
			{[]any{int64(0), int64(500), int64(50), int64(365)}, "max audits must be positive"},
			{[]any{int64(10), int64(-1), int64(50), int64(365)}, "audit fee must not be negative"},
			{[]any{int64(10), int64(500), int64(101), int64(365)}, "batch limit is out of range"},
			{[]any{int64(10), int64(500), int64(50), int64(0)}, "audit frequency must be positive"},
		} {
			e.DeployContractCheckFAULT(t, ctr, tc.data, tc.err)
		}
	})
}

func TestAuditUpdate(t *testing.T) {
	c := newAuditInvoker(t, nil)

	acc := c.NewAccount(t)
	c.WithSigners(acc).InvokeFail(t, common.ErrUpdateAccessDenied, "update", nil, nil, nil)
}

func TestSetAuthorityContract(t *testing.T) {
	c := newAuditInvoker(t, nil)

	c.Invoke(t, false, "setAuthorityContract", util.Uint160{})
	c.Invoke(t, false, "setAuthorityContract", []byte{1, 2, 3})
	c.Invoke(t, stackitem.Null{}, "authority")

	tx := c.PrepareInvoke(t, "setAuthorityContract", authority)
	c.AddNewBlock(t, tx)
	aer := c.CheckHalt(t, tx.Hash(), stackitem.NewBool(true))
	require.Len(t, aer.Events, 1)
	require.Equal(t, auditconst.AuthoritySetNotification, aer.Events[0].Name)

	var ev rpcaudit.AuthoritySetEvent
	require.NoError(t, ev.FromStackItem(aer.Events[0].Item))
	require.Equal(t, authority, ev.Authority)

	c.Invoke(t, authority.BytesBE(), "authority")

	t.Run("set once", func(t *testing.T) {
		c.Invoke(t, false, "setAuthorityContract", util.Uint160{0xff})
		c.Invoke(t, authority.BytesBE(), "authority")
	})
}

func TestSetAuditFee(t *testing.T) {
	c := newAuditInvoker(t, nil)

	c.Invoke(t, false, "setAuditFee", 700)
	c.Invoke(t, auditconst.DefaultAuditFee, "auditFee")

	c.Invoke(t, true, "setAuthorityContract", authority)
	c.Invoke(t, false, "setAuditFee", -1)
	c.Invoke(t, true, "setAuditFee", 700)
	c.Invoke(t, 700, "auditFee")
	c.Invoke(t, true, "setAuditFee", 0)
	c.Invoke(t, 0, "auditFee")
}

func TestSetBatchLimit(t *testing.T) {
	c := newAuditInvoker(t, nil)

	c.Invoke(t, false, "setBatchLimit", 10)

	c.Invoke(t, true, "setAuthorityContract", authority)
	c.Invoke(t, false, "setBatchLimit", 0)
	c.Invoke(t, false, "setBatchLimit", auditconst.MaxBatchLimit+1)
	c.Invoke(t, true, "setBatchLimit", auditconst.MaxBatchLimit)
	c.Invoke(t, auditconst.MaxBatchLimit, "batchLimit")
}

func TestPerformAudit(t *testing.T) {
	c, auditor := newAuditorInvoker(t, nil)

	res, events := invokeAudit(t, c, "performAudit", performArgs(auditor, 1)...)
	requireOK(t, res, 0)
	c.CheckGASBalance(t, authority, big.NewInt(auditconst.DefaultAuditFee))

	var performed *rpcaudit.AuditPerformedEvent
	for i := range events {
		if events[i].Name == auditconst.AuditPerformedNotification {
			performed = new(rpcaudit.AuditPerformedEvent)
			require.NoError(t, performed.FromStackItem(events[i].Item))
		}
	}
	require.NotNil(t, performed)
	require.Equal(t, rpcaudit.AuditPerformedEvent{
		ID:         big.NewInt(0),
		ReportID:   big.NewInt(1),
		Company:    company,
		Compliance: true,
	}, *performed)

	a := getAudit(t, c, 0)
	require.NotNil(t, a)
	require.Equal(t, int64(1), a.ReportID.Int64())
	require.Equal(t, company, a.Company)
	require.Equal(t, auditor, a.Auditor)
	require.True(t, a.Compliance)
	require.True(t, a.RewardTriggered)
	require.False(t, a.PenaltyTriggered)
	require.Equal(t, "energy", a.Industry)
	require.LessOrEqual(t, a.Timestamp.Uint64(), uint64(c.Chain.BlockHeight()))

	c.Invoke(t, 1, "getAuditCount")
	c.Invoke(t, 0, "getAuditByReport", 1)
	c.Invoke(t, stackitem.Null{}, "getAuditByReport", 2)
	c.Invoke(t, stackitem.Null{}, "getAudit", 1)
	c.Invoke(t, stackitem.Null{}, "getAuditUpdate", 0)

	t.Run("non-compliant", func(t *testing.T) {
		args := performArgs(auditor, 2)
		args[3] = int64(2000) // emissions equal to threshold
		res, _ := invokeAudit(t, c, "performAudit", args...)
		requireOK(t, res, 1)

		a := getAudit(t, c, 1)
		require.False(t, a.Compliance)
		require.True(t, a.PenaltyTriggered)
		require.False(t, a.RewardTriggered)
	})

	t.Run("list by company", func(t *testing.T) {
		c.Invoke(t, []stackitem.Item{stackitem.Make(0), stackitem.Make(1)}, "listByCompany", company)
		c.Invoke(t, []stackitem.Item{}, "listByCompany", util.Uint160{0xee})

		s, err := c.TestInvoke(t, "iterateByCompany", company)
		require.NoError(t, err)

		iter := s.Pop().Value().(*storage.Iterator)
		var ids []int64
		for iter.Next() {
			ids = append(ids, iter.Value().Value().(*big.Int).Int64())
		}
		require.Equal(t, []int64{0, 1}, ids)
	})

	t.Run("duplicate", func(t *testing.T) {
		res, _ := invokeAudit(t, c, "performAudit", performArgs(auditor, 1)...)
		requireCode(t, res, auditconst.ErrAuditAlreadyPerformed)
		c.Invoke(t, 2, "getAuditCount")
		c.CheckGASBalance(t, authority, big.NewInt(2*auditconst.DefaultAuditFee))
	})

	t.Run("witness", func(t *testing.T) {
		res, _ := invokeAudit(t, c, "performAudit", performArgs(util.Uint160{0x77}, 10)...)
		requireCode(t, res, auditconst.ErrNotAuthorized)
		c.Invoke(t, stackitem.Null{}, "getAuditByReport", 10)
	})

	t.Run("fee transfer", func(t *testing.T) {
		c.CommitteeInvoker(c.Hash).Invoke(t, true, "setAuditFee", int64(1_000_000_0000_0000))
		c.InvokeFail(t, "failed to transfer audit fee", "performAudit", performArgs(auditor, 11)...)
	})
}

func TestPerformAuditValidation(t *testing.T) {
	c, auditor := newAuditorInvoker(t, nil)

	for _, tc := range []struct {
		name  string
		index int
		value any
		code  int64
	}{
		{"report id", 1, int64(0), auditconst.ErrInvalidReportID},
		{"zero company", 2, util.Uint160{}, auditconst.ErrInvalidCompany},
		{"malformed company", 2, []byte{1, 2, 3}, auditconst.ErrInvalidCompany},
		{"emissions", 3, int64(0), auditconst.ErrInvalidEmissions},
		{"threshold", 4, int64(-5), auditconst.ErrInvalidThreshold},
		{"audit type", 5, "weekly", auditconst.ErrInvalidAuditType},
		{"oracle data", 6, int64(-1), auditconst.ErrInvalidOracleData},
		{"empty industry", 7, "", auditconst.ErrInvalidIndustry},
		{"long industry", 7, string(make([]byte, auditconst.MaxIndustryLength+1)), auditconst.ErrInvalidIndustry},
		{"metric", 8, "SO2", auditconst.ErrInvalidMetric},
	} {
		t.Run(tc.name, func(t *testing.T) {
			args := performArgs(auditor, 1)
			args[tc.index] = tc.value

			res, _ := invokeAudit(t, c, "performAudit", args...)
			requireCode(t, res, tc.code)
		})
	}

	c.Invoke(t, 0, "getAuditCount")
	c.CheckGASBalance(t, authority, big.NewInt(0))

	t.Run("boundary industry", func(t *testing.T) {
		args := performArgs(auditor, 1)
		args[7] = string(make([]byte, auditconst.MaxIndustryLength))

		res, _ := invokeAudit(t, c, "performAudit", args...)
		requireOK(t, res, 0)
	})
}

func TestPerformAuditState(t *testing.T) {
	t.Run("no authority", func(t *testing.T) {
		c := newAuditInvoker(t, nil)
		acc := c.NewAccount(t)
		ca := c.WithSigners(acc)

		res, _ := invokeAudit(t, ca, "performAudit", performArgs(acc.ScriptHash(), 1)...)
		requireCode(t, res, auditconst.ErrAuthorityNotVerified)
	})

	t.Run("max audits", func(t *testing.T) {
		cfg := config.Default()
		cfg.MaxAudits = 1
		c, auditor := newAuditorInvoker(t, cfg.DeployData())

		res, _ := invokeAudit(t, c, "performAudit", performArgs(auditor, 1)...)
		requireOK(t, res, 0)

		// Id space is checked before the arguments.
		args := performArgs(auditor, 0)
		res, _ = invokeAudit(t, c, "performAudit", args...)
		requireCode(t, res, auditconst.ErrMaxAuditsExceeded)
	})
}

func TestUpdateAudit(t *testing.T) {
	c, auditor := newAuditorInvoker(t, nil)

	res, _ := invokeAudit(t, c, "performAudit", performArgs(auditor, 1)...)
	requireOK(t, res, 0)

	res, _ = invokeAudit(t, c, "updateAudit", auditor, 5, 2500, 2000)
	requireCode(t, res, auditconst.ErrInvalidAuditResult)

	other := c.NewAccount(t)
	res, _ = invokeAudit(t, c.WithSigners(other), "updateAudit", other.ScriptHash(), 0, 2500, 2000)
	requireCode(t, res, auditconst.ErrNotAuthorized)

	// Auditor hash without its witness.
	res, _ = invokeAudit(t, c.WithSigners(other), "updateAudit", auditor, 0, 2500, 2000)
	requireCode(t, res, auditconst.ErrNotAuthorized)

	res, _ = invokeAudit(t, c, "updateAudit", auditor, 0, 0, 2000)
	requireCode(t, res, auditconst.ErrInvalidEmissions)

	res, _ = invokeAudit(t, c, "updateAudit", auditor, 0, 2500, 0)
	requireCode(t, res, auditconst.ErrInvalidThreshold)

	c.Invoke(t, stackitem.Null{}, "getAuditUpdate", 0)

	res, events := invokeAudit(t, c, "updateAudit", auditor, 0, 2500, 2000)
	requireOK(t, res, 0)
	require.Len(t, events, 1)

	var ev rpcaudit.AuditUpdatedEvent
	require.NoError(t, ev.FromStackItem(events[0].Item))
	require.Equal(t, rpcaudit.AuditUpdatedEvent{ID: big.NewInt(0), Compliance: false}, ev)

	a := getAudit(t, c, 0)
	require.Equal(t, int64(2500), a.Emissions.Int64())
	require.False(t, a.Compliance)
	require.True(t, a.PenaltyTriggered)
	require.False(t, a.RewardTriggered)

	s, err := c.TestInvoke(t, "getAuditUpdate", 0)
	require.NoError(t, err)

	var u rpcaudit.AuditUpdate
	require.NoError(t, u.FromStackItem(s.Top().Item()))
	require.Equal(t, int64(2500), u.Emissions.Int64())
	require.Equal(t, int64(2000), u.Threshold.Int64())
	require.Equal(t, auditor, u.Updater)
	require.Equal(t, a.Timestamp, u.Timestamp)

	// Update does not charge the fee.
	c.CheckGASBalance(t, authority, big.NewInt(auditconst.DefaultAuditFee))
}

func TestBatchAudit(t *testing.T) {
	cfg := config.Default()
	cfg.BatchLimit = 3
	c, auditor := newAuditorInvoker(t, cfg.DeployData())

	res, _ := invokeAudit(t, c, "batchAudit", auditor, []any{1, 2, 3, 4})
	requireCode(t, res, auditconst.ErrBatchLimitExceeded)
	c.Invoke(t, 0, "getAuditCount")

	res, _ = invokeAudit(t, c, "batchAudit", auditor, []any{})
	requireOK(t, res, 0)

	res, events := invokeAudit(t, c, "batchAudit", auditor, []any{1, 2})
	requireOK(t, res, 2)
	c.Invoke(t, 2, "getAuditCount")
	c.CheckGASBalance(t, authority, big.NewInt(2*auditconst.DefaultAuditFee))

	var n int
	for i := range events {
		if events[i].Name == auditconst.AuditPerformedNotification {
			n++
		}
	}
	require.Equal(t, 2, n)

	a := getAudit(t, c, 1)
	require.Equal(t, auditor, a.Company)
	require.Equal(t, int64(auditconst.BatchEmissions), a.Emissions.Int64())
	require.Equal(t, int64(auditconst.BatchThreshold), a.Threshold.Int64())
	require.Equal(t, auditconst.BatchIndustry, a.Industry)

	t.Run("partial", func(t *testing.T) {
		res, _ := invokeAudit(t, c, "batchAudit", auditor, []any{5, 1, 6})
		requireCode(t, res, auditconst.ErrAuditAlreadyPerformed)

		c.Invoke(t, 3, "getAuditCount")
		c.Invoke(t, 2, "getAuditByReport", 5)
		c.Invoke(t, stackitem.Null{}, "getAuditByReport", 6)
	})
}

// TestRegistryModel replays the same scenario on the contract and on the
// registry and compares every result and the final state.
func TestRegistryModel(t *testing.T) {
	cfg := config.Default()
	cfg.MaxAudits = 6
	cfg.BatchLimit = 3

	c := newAuditInvoker(t, cfg.DeployData())
	acc := c.NewAccount(t)
	ca := c.WithSigners(acc)
	auditor := acc.ScriptHash()

	r := registry.New(zaptest.NewLogger(t), cfg)
	r.SetCaller(auditor)

	requireSame := func(t *testing.T, res rpcaudit.Result, value int64, err error) {
		if err != nil {
			code, ok := registry.CodeOf(err)
			require.True(t, ok, err)
			requireCode(t, res, int64(code))
			return
		}
		requireOK(t, res, value)
	}

	perform := func(req registry.Request) {
		res, _ := invokeAudit(t, ca, "performAudit", auditor, req.ReportID, req.Company,
			req.Emissions, req.Threshold, req.AuditType, req.OracleData, req.Industry, req.Metric)
		id, err := r.PerformAudit(req)
		requireSame(t, res, id, err)
	}

	valid := registry.Request{
		ReportID:  1,
		Company:   company,
		Emissions: 1500,
		Threshold: 1000,
		AuditType: auditconst.AuditTypeQuarterly,
		Industry:  "steel",
		Metric:    auditconst.MetricCH4,
	}

	perform(valid) // authority is not set yet

	c.Invoke(t, true, "setAuthorityContract", authority)
	require.NoError(t, r.SetAuthorityContract(authority))

	perform(valid)
	perform(valid)

	req := valid
	req.ReportID = 2
	req.Metric = "NOx"
	perform(req)
	req.Metric = auditconst.MetricN2O
	req.Emissions = 10
	perform(req)

	batch := []int64{3, 4, 2, 5}
	res, _ := invokeAudit(t, ca, "batchAudit", auditor, []any{batch[0], batch[1], batch[2], batch[3]})
	n, err := r.BatchAudit(batch)
	requireSame(t, res, int64(n), err)

	// Report 3 is audited, the batch stops at already audited report 2.
	res, _ = invokeAudit(t, ca, "batchAudit", auditor, []any{batch[0], batch[2]})
	n, err = r.BatchAudit([]int64{batch[0], batch[2]})
	require.ErrorIs(t, err, registry.ErrAuditAlreadyPerformed)
	require.Equal(t, 1, n)
	requireSame(t, res, int64(n), err)

	res, _ = invokeAudit(t, ca, "batchAudit", auditor, []any{int64(7), int64(8)})
	n, err = r.BatchAudit([]int64{7, 8})
	requireSame(t, res, int64(n), err)

	res, _ = invokeAudit(t, ca, "updateAudit", auditor, int64(0), int64(900), int64(1000))
	requireSame(t, res, 0, r.UpdateAudit(0, 900, 1000))

	req.ReportID = 9
	perform(req)
	req.ReportID = 10
	perform(req) // id space is exhausted

	c.Invoke(t, r.AuditCount(), "getAuditCount")
	c.CheckGASBalance(t, authority, big.NewInt(int64(len(r.Transfers()))*cfg.AuditFee))

	for id := int64(0); id < r.AuditCount(); id++ {
		want, ok := r.GetAudit(id)
		require.True(t, ok)

		got := getAudit(t, c, id)
		require.NotNil(t, got)
		require.Equal(t, want.ReportID, got.ReportID.Int64())
		require.Equal(t, want.Company, got.Company)
		require.Equal(t, want.Emissions, got.Emissions.Int64())
		require.Equal(t, want.Threshold, got.Threshold.Int64())
		require.Equal(t, want.Compliance, got.Compliance)
		require.Equal(t, want.PenaltyTriggered, got.PenaltyTriggered)
		require.Equal(t, want.RewardTriggered, got.RewardTriggered)
		require.Equal(t, want.AuditType, got.AuditType)
		require.Equal(t, want.Industry, got.Industry)
		require.Equal(t, want.Metric, got.Metric)

		c.Invoke(t, id, "getAuditByReport", want.ReportID)
	}
}
