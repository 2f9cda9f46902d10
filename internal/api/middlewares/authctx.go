package middlewares

import "context"

const staffKey ctxKey = 1

type staffIdentity struct {
	ID   string
	Role string
}

func WithStaff(ctx context.Context, staffID, role string) context.Context {
	return context.WithValue(ctx, staffKey, staffIdentity{ID: staffID, Role: role})
}

func StaffFrom(ctx context.Context) (id, role string, ok bool) {
	v, ok := ctx.Value(staffKey).(staffIdentity)
	return v.ID, v.Role, ok && v.ID != ""
}
