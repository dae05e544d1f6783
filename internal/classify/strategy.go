package classify

// strategy is one step of the lookup chain.
//
// key returns the string to look up and whether the strategy applies at all.
// A strategy that does not apply passes control to the next one; a strategy
// that applies but misses ends the chain.
type strategy struct {
	kind       Kind
	key        func(f *AudioFile) (string, bool)
	missReason string
}

func defaultStrategies() []strategy {
	return []strategy{
		{
			kind:       MatchedByTitle,
			key:        titleKey,
			missReason: "title not in any playlist",
		},
		{
			kind:       MatchedByFilename,
			key:        stemKey,
			missReason: "no tag title and filename not in any playlist",
		},
	}
}

func titleKey(f *AudioFile) (string, bool) {
	if !f.Tag.HasTitle() {
		return "", false
	}
	return f.Tag.Title, true
}

func stemKey(f *AudioFile) (string, bool) {
	return f.Stem, true
}
