package cryptguard

// Profile names a named preset of KDF cost parameters. Consumers pick
// a profile by name; the profile table is not consulted on decrypt —
// cost parameters then come from the container itself.
type Profile string

const (
	ProfileFast     Profile = "fast"
	ProfileBalanced Profile = "balanced"
	ProfileSecure   Profile = "secure"
	ProfileParanoid Profile = "paranoid"

	// DefaultProfile is an Engine's default profile unless replaced
	// with WithDefaultProfile; EncryptFile uses it whenever
	// EncryptOptions doesn't specify one.
	DefaultProfile = ProfileBalanced
)

// profileTable is a startup constant, a named lookup covering every
// recognized profile.
var profileTable = map[Profile]KDFParams{
	ProfileFast: {
		MemoryCostKiB: 4096,
		TimeCost:      1,
		Parallelism:   8,
		OutputLength:  derivedKeyLength,
	},
	ProfileBalanced: {
		MemoryCostKiB: 65536,
		TimeCost:      3,
		Parallelism:   4,
		OutputLength:  derivedKeyLength,
	},
	ProfileSecure: {
		MemoryCostKiB: 262144,
		TimeCost:      4,
		Parallelism:   4,
		OutputLength:  derivedKeyLength,
	},
	ProfileParanoid: {
		MemoryCostKiB: 1048576,
		TimeCost:      10,
		Parallelism:   4,
		OutputLength:  derivedKeyLength,
	},
}

// ProfileParams looks up the KDF parameters for a named profile.
func ProfileParams(name Profile) (KDFParams, error) {
	params, ok := profileTable[name]
	if !ok {
		return KDFParams{}, errUnknownProfile(string(name))
	}
	return params, nil
}
