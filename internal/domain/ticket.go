package domain

// TicketRecord is one issue exported from the legacy Lighthouse tracker,
// with its full chronological version history and attachment set.
type TicketRecord struct {
	Number         int
	Title          string
	Body           string
	State          string
	Importance     int
	ImportanceName string
	CreatorID      *int64
	AssignedUserID *int64
	Tag            string
	CreatedAt      string
	UpdatedAt      string
	Versions       []Version
	Attachments    []AttachmentRef
}

// Version is one point-in-time snapshot of a ticket. A version with an empty
// DiffableAttributes map is a pure comment; otherwise it records a field edit
// and DiffableAttributes maps each changed attribute to its prior value.
type Version struct {
	// Sequence is the snapshot ordinal; 1 is the creation version.
	Sequence       int
	UserName       string
	CreatedAt      string
	Body           string
	State          string
	AssignedUserID *int64

	// DiffableAttributes maps changed attribute name to its value before
	// this version.
	DiffableAttributes map[string]any

	// Fields retains the raw snapshot values so attributes outside the
	// typed schema can still be diffed verbatim.
	Fields map[string]any
}

// HasChanges reports whether the version records at least one field edit.
func (v Version) HasChanges() bool {
	return len(v.DiffableAttributes) > 0
}

// IsCreation reports whether this is the ticket's creation snapshot.
func (v Version) IsCreation() bool {
	return v.Sequence == 1
}

// Field returns the version's current value for an arbitrary attribute.
func (v Version) Field(name string) any {
	if v.Fields == nil {
		return nil
	}
	return v.Fields[name]
}

// AttachmentRef points at one attachment's metadata and its bytes on disk.
type AttachmentRef struct {
	Filename    string
	ContentType string
	UploaderID  *int64
	CreatedAt   string
	SourceURL   string
}
