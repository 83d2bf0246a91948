/*
Package audit implements Emissions Audit contract.

Auditors record compliance checks of company emissions reports. Every report
can be audited only once. Audit is compliant when reported emissions are
strictly below the threshold; non-compliant audits trigger a penalty,
compliant ones trigger a reward. Every audit is paid: the auditor transfers
the audit fee in GAS to the authority account which is configured once after
deployment. Fee and batch limit can be changed only after the authority is
set.

Audit methods never fault on invalid input. They return a Result structure
with OK flag and either a payload or an error code listed in auditconst
package. Batch audits stop at the first failed report, audits performed
before it are kept.

# Contract notifications

AuthoritySet notification. This notification is produced when the authority
account is configured.

	AuthoritySet:
	  - name: authority
	    type: Hash160

AuditPerformed notification. This notification is produced when a new audit
is stored, including audits of batch requests.

	AuditPerformed:
	  - name: id
	    type: Integer
	  - name: reportID
	    type: Integer
	  - name: company
	    type: Hash160
	  - name: compliance
	    type: Boolean

AuditUpdated notification. This notification is produced when the auditor
changes emissions and threshold of the existing audit.

	AuditUpdated:
	  - name: id
	    type: Integer
	  - name: compliance
	    type: Boolean
*/
package audit

/*
Contract storage model.

Current conventions:
 <id>: little-endian integer identifier of the audit, dense starting from 0
 <report>: little-endian integer identifier of the emissions report
 <company>: 20-byte script hash of the audited company

# Summary
Key-value storage format:
 - 'n' -> int
   number of performed audits, also the identifier of the next one
 - 'm' -> int
   maximum number of audits
 - 'f' -> int
   audit fee in GAS fractions
 - 'l' -> int
   maximum number of reports in a batch
 - 'q' -> int
   audit frequency, informational
 - 'o' -> interop.Hash160
   authority account receiving audit fees
 - 'a' + <id> -> std.Serialize(Audit)
   audit records
 - 'u' + <id> -> std.Serialize(AuditUpdate)
   the latest update of the audit
 - 'r' + <report> -> std.Serialize(<id>)
   audit of the report
 - 'c' + <company> + <id> -> std.Serialize(<id>)
   audits of the company

# Audits
Audit records are never deleted. Report index is written once together with
the audit and is never changed.
*/
