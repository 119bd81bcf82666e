package domain

// IssueRecord is one normalized issue in the Jira import document. It is
// built once per ticket record and never mutated afterwards.
type IssueRecord struct {
	Priority    string           `json:"priority"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	Resolution  *string          `json:"resolution"`
	Reporter    string           `json:"reporter"`
	IssueType   string           `json:"issueType"`
	Created     string           `json:"created"`
	Updated     string           `json:"updated"`
	Summary     string           `json:"summary"`
	Assignee    string           `json:"assignee"`
	ExternalID  int              `json:"externalId"`
	Labels      []string         `json:"labels"`
	Comments    []Comment        `json:"comments"`
	History     []HistoryEntry   `json:"history"`
	Attachments []AttachmentMeta `json:"attachments"`
}

// Comment is one imported comment, in input order.
type Comment struct {
	Body    string `json:"body"`
	Author  string `json:"author"`
	Created string `json:"created"`
}

// HistoryItem is one field change inside a history entry. From/To values are
// heterogeneous: status codes are strings, synthetic resolution codes are
// integers, everything else passes through verbatim.
type HistoryItem struct {
	FieldType  string `json:"fieldType"`
	Field      string `json:"field"`
	From       any    `json:"from"`
	FromString any    `json:"fromString"`
	To         any    `json:"to"`
	ToString   any    `json:"toString"`
}

// HistoryEntry groups all field changes from one version. Entries with zero
// items are never emitted.
type HistoryEntry struct {
	Author  string        `json:"author"`
	Created string        `json:"created"`
	Items   []HistoryItem `json:"items"`
}

// AttachmentMeta describes one migrated attachment. URI is nil when the
// upload failed and the entry was kept anyway.
type AttachmentMeta struct {
	Name        string  `json:"name"`
	Attacher    string  `json:"attacher"`
	Created     string  `json:"created"`
	URI         *string `json:"uri"`
	Description string  `json:"description"`
}

// ProjectEnvelope is one target project with its sorted issue list.
type ProjectEnvelope struct {
	Name        string        `json:"name"`
	Key         string        `json:"key"`
	URL         string        `json:"url"`
	Description string        `json:"description"`
	Issues      []IssueRecord `json:"issues"`
}

// ImportDocument is the top-level output document.
type ImportDocument struct {
	Projects []ProjectEnvelope `json:"projects"`
}
