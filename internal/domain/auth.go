package domain

import "time"

// SubjectType differentiates the kinds of token subjects.
type SubjectType string

const (
	SubjectTypeHandler SubjectType = "HANDLER"
	SubjectTypeService SubjectType = "SERVICE"
)

// Token represents issued authentication token metadata.
type Token struct {
	SubjectID string
	Subject   SubjectType
	Role      *HandlerRole
	ExpiresAt time.Time
	IssuedAt  time.Time
}
