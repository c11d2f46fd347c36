package folderconfig

const (
	MinChunkSize        = 100
	MaxChunkSize        = 5000
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunking holds a folder's chunk window parameters.
type Chunking struct {
	Size    int `json:"chunkSize"`
	Overlap int `json:"chunkOverlap"`
}

// DefaultChunking is the configuration a new folder form starts with.
func DefaultChunking() Chunking {
	return Chunking{Size: DefaultChunkSize, Overlap: DefaultChunkOverlap}
}

// MaxOverlap is the largest overlap allowed for size.
func MaxOverlap(size int) int {
	return size / 2
}

// ValidateChunking clamps size into [MinChunkSize, MaxChunkSize] and then
// overlap into [0, size/2]. Out-of-range input is corrected, never rejected.
func ValidateChunking(size, overlap int) (Chunking, error) {
	size = clamp(size, MinChunkSize, MaxChunkSize)
	overlap = clamp(overlap, 0, MaxOverlap(size))
	return Chunking{Size: size, Overlap: overlap}, nil
}

// CheckChunking is the strict form used by the store: it rejects values
// outside the bounds instead of correcting them.
func CheckChunking(size, overlap int) error {
	if size < MinChunkSize || size > MaxChunkSize {
		return newError(OutOfRange, "chunkSize", "chunk size must be between %d and %d, got %d", MinChunkSize, MaxChunkSize, size)
	}
	if overlap < 0 || overlap > MaxOverlap(size) {
		return newError(OutOfRange, "chunkOverlap", "chunk overlap must be between 0 and %d, got %d", MaxOverlap(size), overlap)
	}
	return nil
}

// AdjustChunkSize applies a step to the size and immediately re-clamps the
// overlap against the new bound.
func AdjustChunkSize(c Chunking, delta int) Chunking {
	out, _ := ValidateChunking(c.Size+delta, c.Overlap)
	return out
}

// AdjustChunkOverlap applies a step to the overlap within [0, size/2].
func AdjustChunkOverlap(c Chunking, delta int) Chunking {
	out, _ := ValidateChunking(c.Size, c.Overlap+delta)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
