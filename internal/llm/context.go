package llm

import "context"

type callInfoKey struct{}

// callInfo labels a call for the request event log.
type callInfo struct {
	purpose string
	user    string
}

func infoFrom(ctx context.Context) callInfo {
	info, _ := ctx.Value(callInfoKey{}).(callInfo)
	return info
}

// WithPurpose tags calls made with ctx, e.g. "question-gen".
func WithPurpose(ctx context.Context, purpose string) context.Context {
	info := infoFrom(ctx)
	info.purpose = purpose
	return context.WithValue(ctx, callInfoKey{}, info)
}

// WithUser records which quiz user the calls made with ctx serve.
func WithUser(ctx context.Context, user string) context.Context {
	info := infoFrom(ctx)
	info.user = user
	return context.WithValue(ctx, callInfoKey{}, info)
}

// PurposeFrom returns the purpose tag, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p := infoFrom(ctx).purpose; p != "" {
		return p
	}
	return "unknown"
}

// UserFrom returns the quiz user, or "".
func UserFrom(ctx context.Context) string {
	return infoFrom(ctx).user
}
