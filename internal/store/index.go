package store

import "slices"

// index is the bidirectional lookup between links and their tags and tabs.
// Every slice keeps insertion order so reads are deterministic.
type index struct {
	tagsByLink map[string][]string // link id -> tag ids
	linksByTag map[string][]string // folded tag name -> link ids
	tabsByLink map[string][]string // link id -> tab ids
	linksByTab map[string][]string // tab id -> link ids
}

func newIndex() *index {
	return &index{
		tagsByLink: make(map[string][]string),
		linksByTag: make(map[string][]string),
		tabsByLink: make(map[string][]string),
		linksByTab: make(map[string][]string),
	}
}

func (x *index) addTag(linkID, tagID, folded string) {
	x.tagsByLink[linkID] = append(x.tagsByLink[linkID], tagID)
	x.linksByTag[folded] = append(x.linksByTag[folded], linkID)
}

func (x *index) removeTag(linkID, tagID, folded string) {
	x.tagsByLink[linkID] = removeID(x.tagsByLink[linkID], tagID)
	if len(x.tagsByLink[linkID]) == 0 {
		delete(x.tagsByLink, linkID)
	}
	x.linksByTag[folded] = removeID(x.linksByTag[folded], linkID)
	if len(x.linksByTag[folded]) == 0 {
		delete(x.linksByTag, folded)
	}
}

func (x *index) inTab(linkID, tabID string) bool {
	return slices.Contains(x.linksByTab[tabID], linkID)
}

func (x *index) linkTab(linkID, tabID string) {
	x.linksByTab[tabID] = append(x.linksByTab[tabID], linkID)
	x.tabsByLink[linkID] = append(x.tabsByLink[linkID], tabID)
}

func (x *index) unlinkTab(linkID, tabID string) {
	x.linksByTab[tabID] = removeID(x.linksByTab[tabID], linkID)
	x.tabsByLink[linkID] = removeID(x.tabsByLink[linkID], tabID)
	if len(x.tabsByLink[linkID]) == 0 {
		delete(x.tabsByLink, linkID)
	}
}

func (x *index) dropTab(tabID string) {
	for _, linkID := range slices.Clone(x.linksByTab[tabID]) {
		x.unlinkTab(linkID, tabID)
	}
	delete(x.linksByTab, tabID)
}
