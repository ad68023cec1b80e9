package engine

// PageIndex maps a page number to the ordered identities that occupy that
// page under the currently active filter. Entries are always replaced
// wholesale, never patched: a refetch or a membership-replacement event
// rewrites the whole page.
type PageIndex struct {
	pages map[int][]string
}

// NewPageIndex creates an empty index.
func NewPageIndex() *PageIndex {
	return &PageIndex{pages: make(map[int][]string)}
}

// IDs returns the ordered identities on a page, nil if the page is unknown.
// Callers must not mutate the returned slice.
func (p *PageIndex) IDs(page int) []string {
	return p.pages[page]
}

// SetIDs wholesale-replaces the identities on a page.
func (p *PageIndex) SetIDs(page int, ids []string) {
	p.pages[page] = ids
}

// Clear drops all pages. Used on filter change.
func (p *PageIndex) Clear() {
	clear(p.pages)
}

// Len returns the number of known pages.
func (p *PageIndex) Len() int {
	return len(p.pages)
}
