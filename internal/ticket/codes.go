package ticket

// GenerateCodes enumerates the ticket code space for one game: the seed
// codes verbatim (they may jump around for display variety), then
// consecutive integers counting up from the last seed until target codes
// exist. Pure function of its inputs.
func GenerateCodes(seeds []int64, target int) []int64 {
	codes := make([]int64, 0, target)
	codes = append(codes, seeds...)
	if len(codes) >= target {
		return codes[:target]
	}

	next := int64(0)
	if len(seeds) > 0 {
		next = seeds[len(seeds)-1]
	}
	for len(codes) < target {
		next++
		codes = append(codes, next)
	}
	return codes
}

// CodeInSpace reports whether code belongs to the space GenerateCodes
// would produce for the same seeds and target, without materializing it.
func CodeInSpace(seeds []int64, target int, code int64) bool {
	for i, s := range seeds {
		if i >= target {
			return false
		}
		if s == code {
			return true
		}
	}
	if len(seeds) >= target {
		return false
	}
	last := int64(0)
	if len(seeds) > 0 {
		last = seeds[len(seeds)-1]
	}
	return code > last && code <= last+int64(target-len(seeds))
}
