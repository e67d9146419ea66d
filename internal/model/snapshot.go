package model

// Snapshot is the flat persisted shape of a collection: links, tags carrying
// their owning link id, and tabs carrying their member link ids.
type Snapshot struct {
	Links []Link      `json:"links"`
	Tags  []Tag       `json:"tags"`
	Tabs  []CustomTab `json:"tabs"`
}

// Empty reports whether the snapshot holds no records at all.
func (s *Snapshot) Empty() bool {
	return len(s.Links) == 0 && len(s.Tags) == 0 && len(s.Tabs) == 0
}
