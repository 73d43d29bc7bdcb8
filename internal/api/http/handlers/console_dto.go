package handlers

import (
	"github.com/spec-kit/enquiry-console/internal/api/dto"
	"github.com/spec-kit/enquiry-console/internal/console"
	"github.com/spec-kit/enquiry-console/internal/reconcile"
)

// DispositionRequest payload for PUT /console/enquiries/:id/disposition.
type DispositionRequest struct {
	Disposition string `json:"disposition"`
}

// BoardRowResponse is one row of the console board.
type BoardRowResponse struct {
	dto.EnquiryResponse
	HandlerName string `json:"handler_name,omitempty"`
	Eligible    bool   `json:"eligible"`
}

// HandlerLoadResponse is one roster entry with its current load.
type HandlerLoadResponse struct {
	HandlerID string `json:"handler_id"`
	Name      string `json:"name"`
	Load      int    `json:"load"`
	Suggested bool   `json:"suggested"`
}

// BoardResponse is the console board.
type BoardResponse struct {
	Rows               []BoardRowResponse    `json:"rows"`
	SuggestedHandlerID *string               `json:"suggested_handler_id"`
	OldestUnassignedID string                `json:"oldest_unassigned_id,omitempty"`
	Loads              []HandlerLoadResponse `json:"loads"`
	SyncState          reconcile.State       `json:"sync_state"`
	Editing            bool                  `json:"editing"`
}

// BoardFromConsole maps the console board.
func BoardFromConsole(b console.Board) BoardResponse {
	out := BoardResponse{
		Rows:               make([]BoardRowResponse, 0, len(b.Rows)),
		Loads:              make([]HandlerLoadResponse, 0, len(b.Loads)),
		OldestUnassignedID: b.OldestUnassignedID,
		SyncState:          b.State,
		Editing:            b.Editing,
	}
	if b.Suggested != nil {
		id := b.Suggested.ID
		out.SuggestedHandlerID = &id
	}
	for _, row := range b.Rows {
		out.Rows = append(out.Rows, BoardRowResponse{
			EnquiryResponse: dto.EnquiryFromDomain(row.Lead),
			HandlerName:     row.HandlerName,
			Eligible:        row.Eligible,
		})
	}
	for _, l := range b.Loads {
		out.Loads = append(out.Loads, HandlerLoadResponse(l))
	}
	return out
}

// AssignResultResponse is returned after an assignment.
type AssignResultResponse struct {
	Enquiry    dto.EnquiryResponse `json:"enquiry"`
	Overridden bool                `json:"overridden"`
}

// ShortlistResponse reports whether a lead was already converted.
type ShortlistResponse struct {
	EnquiryID       string  `json:"enquiry_id"`
	NormalizedPhone string  `json:"normalized_phone"`
	Converted       bool    `json:"converted"`
	ClientID        *string `json:"client_id,omitempty"`
	Actionable      bool    `json:"actionable"`
}

// ShortlistFromConsole maps a shortlist status.
func ShortlistFromConsole(s *console.ShortlistStatus) ShortlistResponse {
	return ShortlistResponse(*s)
}

// SyncResponse reports the outcome of a manual refresh.
type SyncResponse struct {
	Outcome reconcile.Outcome `json:"outcome"`
	Patched []string          `json:"patched,omitempty"`
}
