package cryptguard

// KDFParams are the Argon2id cost parameters persisted in every
// container so decryption can reproduce the key without any state
// beyond the container itself and the passphrase.
type KDFParams struct {
	MemoryCostKiB uint32 // memory in KiB, must be >= 4096
	TimeCost      uint32 // iteration count, must be >= 1
	Parallelism   uint32 // degree of parallelism, must be >= 1
	OutputLength  uint32 // derived key length in bytes, fixed at 32
}

const (
	minMemoryCostKiB = 4096
	minTimeCost      = 1
	minParallelism   = 1
	maxParallelism   = 255 // argon2.IDKey takes threads as a uint8
	derivedKeyLength = 32
)

// Validate checks params against the invariants every container must
// satisfy, on both the encrypt path (caller-supplied or profile
// params) and the decrypt path (params parsed out of a container).
func (p KDFParams) Validate() error {
	switch {
	case p.MemoryCostKiB < minMemoryCostKiB:
		return errInvalidParameters("mem_cost_kib below minimum of 4096")
	case p.TimeCost < minTimeCost:
		return errInvalidParameters("time_cost must be at least 1")
	case p.Parallelism < minParallelism:
		return errInvalidParameters("parallelism must be at least 1")
	case p.Parallelism > maxParallelism:
		return errInvalidParameters("parallelism must be at most 255")
	case p.OutputLength != derivedKeyLength:
		return errInvalidParameters("output_length must be exactly 32")
	default:
		return nil
	}
}
