package httpapi

import "context"

// Role is the caller's coarse authorization level. Staff endpoints require
// RoleStaff; everything else only needs an authenticated subject.
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
)

type subjectKey struct{}
type roleKey struct{}

func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, subjectID)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey{}).(string)
	return v, ok && v != ""
}

func WithRole(ctx context.Context, role Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) Role {
	if v, ok := ctx.Value(roleKey{}).(Role); ok && v != "" {
		return v
	}
	return RoleMember
}
