package domain

import "context"

// TagManageService runs tag-manage invocations. Handle never fails: every
// error is turned into exactly one Reply.
type TagManageService interface {
	Handle(ctx context.Context, inv TagInvocation) Reply
}

// MathService answers math queries through an external computation API.
type MathService interface {
	Query(ctx context.Context, query string) Reply
}
