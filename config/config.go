// Package config provides parameters of the emissions audit registry and
// the Emissions Audit contract deployment.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/nspcc-dev/emissions-audit/contracts/audit/auditconst"
	"gopkg.in/yaml.v3"
)

// Audit groups configurable parameters of the audit registry.
type Audit struct {
	// Maximum number of audits, i.e. the size of audit identifier space.
	MaxAudits int64 `yaml:"max_audits"`
	// Fee transferred from the auditor to the authority for every audit.
	AuditFee int64 `yaml:"audit_fee"`
	// Maximum number of reports in a single batch request.
	BatchLimit int64 `yaml:"batch_limit"`
	// Informational audit frequency in days.
	AuditFrequency int64 `yaml:"audit_frequency"`
}

// Default returns parameters the contract is deployed with when no
// deployment data is provided.
func Default() Audit {
	return Audit{
		MaxAudits:      auditconst.DefaultMaxAudits,
		AuditFee:       auditconst.DefaultAuditFee,
		BatchLimit:     auditconst.DefaultBatchLimit,
		AuditFrequency: auditconst.DefaultAuditFrequency,
	}
}

// Load reads YAML configuration file. Parameters missing in the file are
// taken from Default.
func Load(path string) (Audit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Audit{}, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration. Parameters missing in data are taken
// from Default. Resulting configuration is validated.
func Parse(data []byte) (Audit, error) {
	cfg := Default()

	err := yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Audit{}, fmt.Errorf("decode YAML: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return Audit{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks parameters against the limits accepted by the contract.
func (a Audit) Validate() error {
	switch {
	case a.MaxAudits <= 0:
		return errors.New("max_audits must be positive")
	case a.AuditFee < 0:
		return errors.New("audit_fee must not be negative")
	case a.BatchLimit <= 0 || a.BatchLimit > auditconst.MaxBatchLimit:
		return fmt.Errorf("batch_limit must be in (0, %d]", auditconst.MaxBatchLimit)
	case a.AuditFrequency <= 0:
		return errors.New("audit_frequency must be positive")
	}

	return nil
}

// DeployData returns data argument for the contract deployment.
func (a Audit) DeployData() []any {
	return []any{a.MaxAudits, a.AuditFee, a.BatchLimit, a.AuditFrequency}
}
