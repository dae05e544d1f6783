package manifest

import "sync"

// Index maps a track title to the bucket (manifest file name) that lists it.
// Titles match exactly and case-sensitively. When two manifests list the
// same title, whichever was merged last wins.
//
// Index is safe for concurrent use; each access holds the lock only for the
// single map operation.
type Index struct {
	mu     sync.Mutex
	titles map[string]string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{titles: make(map[string]string)}
}

// Put maps title to bucket, replacing any previous mapping.
func (i *Index) Put(title, bucket string) {
	i.mu.Lock()
	i.titles[title] = bucket
	i.mu.Unlock()
}

// Lookup returns the bucket for title.
func (i *Index) Lookup(title string) (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	bucket, ok := i.titles[title]
	return bucket, ok
}

// Len returns the number of distinct titles.
func (i *Index) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.titles)
}

// Merge adds every title of m, mapped to m's source file name.
func (i *Index) Merge(m *Manifest) {
	i.mu.Lock()
	defer i.mu.Unlock()
	for _, title := range m.Titles {
		i.titles[title] = m.SourceFileName
	}
}
