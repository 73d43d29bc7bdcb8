package domain

import (
	"strings"
	"time"
)

// SourceKind names the intake surface that produced an unassigned lead.
type SourceKind string

const (
	SourcePublicForm SourceKind = "public-form"
	SourceBotForm    SourceKind = "bot-form"
	SourceWebForm    SourceKind = "web-form"
)

var sourceKinds = map[SourceKind]struct{}{
	SourcePublicForm: {},
	SourceBotForm:    {},
	SourceWebForm:    {},
}

// Valid reports whether k is one of the known intake sources.
func (k SourceKind) Valid() bool {
	_, ok := sourceKinds[k]
	return ok
}

// HandlerRefKind discriminates the HandlerRef variants.
type HandlerRefKind int

const (
	RefUnassigned HandlerRefKind = iota
	RefSource
	RefAssigned
)

// HandlerRef is the handler slot of a lead: unassigned, tagged with the intake
// source that produced it, or assigned to a real handler.
type HandlerRef struct {
	kind      HandlerRefKind
	source    SourceKind
	handlerID string
}

// Unassigned returns the empty handler reference.
func Unassigned() HandlerRef {
	return HandlerRef{kind: RefUnassigned}
}

// SourceTag returns a provenance-only reference.
func SourceTag(kind SourceKind) HandlerRef {
	return HandlerRef{kind: RefSource, source: kind}
}

// AssignedTo returns a reference to a real handler.
func AssignedTo(handlerID string) HandlerRef {
	if strings.TrimSpace(handlerID) == "" {
		return Unassigned()
	}
	return HandlerRef{kind: RefAssigned, handlerID: handlerID}
}

// ParseHandlerRef decodes the stored string form. Empty input is unassigned, a
// known sentinel becomes a source tag, anything else is a handler id.
func ParseHandlerRef(raw string) HandlerRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unassigned()
	}
	if kind := SourceKind(strings.ToLower(raw)); kind.Valid() {
		return SourceTag(kind)
	}
	return AssignedTo(raw)
}

// Kind returns the variant.
func (r HandlerRef) Kind() HandlerRefKind {
	return r.kind
}

// IsAssigned is true only for references to a real handler.
func (r HandlerRef) IsAssigned() bool {
	return r.kind == RefAssigned
}

// HandlerID returns the handler id for assigned references.
func (r HandlerRef) HandlerID() (string, bool) {
	if r.kind != RefAssigned {
		return "", false
	}
	return r.handlerID, true
}

// Source returns the intake source for source-tagged references.
func (r HandlerRef) Source() (SourceKind, bool) {
	if r.kind != RefSource {
		return "", false
	}
	return r.source, true
}

// String returns the stored string form.
func (r HandlerRef) String() string {
	switch r.kind {
	case RefSource:
		return string(r.source)
	case RefAssigned:
		return r.handlerID
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r HandlerRef) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *HandlerRef) UnmarshalText(text []byte) error {
	*r = ParseHandlerRef(string(text))
	return nil
}

// Lead is an enquiry record.
type Lead struct {
	ID               string
	ContactName      string
	Phone            string
	Handler          HandlerRef
	Disposition      string
	BusinessName     string
	Notes            string
	SecondaryContact string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAssigned reports whether the lead has a real handler.
func (l *Lead) IsAssigned() bool {
	return l != nil && l.Handler.IsAssigned()
}

// Clone returns a shallow copy; all fields are values.
func (l *Lead) Clone() *Lead {
	if l == nil {
		return nil
	}
	cp := *l
	return &cp
}

// CompareLeads orders leads by creation time, then id. It is the only ordering
// used for both gating and listing.
func CompareLeads(a, b *Lead) int {
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}
