package common

import (
	"context"
	"crypto/md5"
	"encoding/hex"
)

// CommonResponse is a lightweight response wrapper used by HTTP handlers.
type CommonResponse struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg,omitempty"`
	Error string      `json:"error,omitempty"`
	Data  interface{} `json:"data,omitempty"`
}

// GetMD5Hash returns the lowercase hex MD5 hash of the input.
func GetMD5Hash(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}

type contextKey string

const actorKey contextKey = "actor"

// ContextWithActor stores the acting user's identity into context.
func ContextWithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor retrieves the acting user's identity from context.
func GetActor(ctx context.Context) string {
	v := ctx.Value(actorKey)
	if v == nil {
		return ""
	}
	if actor, ok := v.(string); ok {
		return actor
	}
	return ""
}
