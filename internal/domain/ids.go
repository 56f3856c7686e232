package domain

// SubjectID is the authenticated subject provided by the identity platform.
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// RegistrationID is an internal identifier for a submitted registration.
type RegistrationID string

// GroupID is an internal identifier for an organizational group.
type GroupID string

// WorkYearID is an internal identifier for a work-year record.
type WorkYearID string
