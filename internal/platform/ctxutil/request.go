package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the per-request identity carried from the HTTP edge into
// services. It is attached once per request; DeviceID may be filled in later
// by the handler that resolves it from the body.
type RequestData struct {
	TraceID   string
	RequestID string
	DeviceID  string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

func GetDeviceID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.DeviceID
	}
	return ""
}

// LogFields prefixes kv with the request and trace ids found on ctx.
func LogFields(ctx context.Context, kv ...interface{}) []interface{} {
	rd := GetRequestData(ctx)
	if rd == nil {
		return kv
	}
	out := make([]interface{}, 0, len(kv)+4)
	if rd.RequestID != "" {
		out = append(out, "request_id", rd.RequestID)
	}
	if rd.TraceID != "" {
		out = append(out, "trace_id", rd.TraceID)
	}
	return append(out, kv...)
}
