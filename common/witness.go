package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// IsValidHash160 checks that h has the length of a script hash.
func IsValidHash160(h interop.Hash160) bool {
	return len(h) == interop.Hash160Len
}

// IsZeroHash160 checks whether h consists of zero bytes only. Such hash is
// reserved and never belongs to a real account.
func IsZeroHash160(h interop.Hash160) bool {
	for i := 0; i < len(h); i++ {
		if h[i] != 0 {
			return false
		}
	}

	return true
}

// HasWitness returns true if h is a well-formed script hash which witnessed
// the current invocation. Unlike runtime.CheckWitness, it does not fault on
// malformed input.
func HasWitness(h interop.Hash160) bool {
	return IsValidHash160(h) && runtime.CheckWitness(h)
}
