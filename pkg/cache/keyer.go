package cache

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs produce equal keys across processes.
type Keyer interface {
	// ImageKey returns the key of a decoded image, given the hash of its
	// encoded file bytes.
	ImageKey(contentHash string) string

	// PackKey returns the key of a packing result.
	PackKey(catalogHash string, opts PackKeyOpts) string
}

// PackKeyOpts holds the packing parameters that affect the result.
type PackKeyOpts struct {
	BinSize int `json:"bin_size"`
	MaxBins int `json:"max_bins"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ImageKey implements Keyer.
func (DefaultKeyer) ImageKey(contentHash string) string {
	return "image:" + contentHash
}

// PackKey implements Keyer.
func (DefaultKeyer) PackKey(catalogHash string, opts PackKeyOpts) string {
	return hashKey("pack", catalogHash, opts)
}
