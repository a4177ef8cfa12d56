package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type ctxKey string

const OperatorKey ctxKey = "operator"

// LocalOperator is the identity used when no API keys are configured.
const LocalOperator = "local"

// KeyStore maps API keys to operator names.
type KeyStore struct {
	keys map[string]string
}

func NewKeyStore(keys map[string]string) *KeyStore {
	cp := make(map[string]string, len(keys))
	for k, op := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		cp[k] = strings.TrimSpace(op)
	}
	return &KeyStore{keys: cp}
}

func (s *KeyStore) Enabled() bool { return s != nil && len(s.keys) > 0 }

// Lookup compares against every key so timing does not depend on which one matched.
func (s *KeyStore) Lookup(token string) (string, bool) {
	var (
		operator string
		found    bool
	)
	for key, op := range s.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1 {
			operator, found = op, true
		}
	}
	return operator, found
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	// websocket clients cannot set headers from the browser
	return r.URL.Query().Get("token")
}

// APIKeyMiddleware resolves the caller to an operator. With no keys
// configured every request runs as LocalOperator.
func APIKeyMiddleware(keys *KeyStore, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator := LocalOperator

			if keys.Enabled() {
				token := tokenFrom(r)
				if token == "" {
					log.Debug("missing api key", zap.String("path", r.URL.Path))
					unauthorized(w, "missing api key")
					return
				}
				op, ok := keys.Lookup(token)
				if !ok {
					log.Info("rejected api key", zap.String("path", r.URL.Path), zap.String("remote", r.RemoteAddr))
					unauthorized(w, "invalid api key")
					return
				}
				operator = op
			}

			ctx := WithOperator(r.Context(), operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error_code":401,"status":"error","message":"` + message + `","data":null}` + "\n"))
}

func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, OperatorKey, operator)
}

func GetOperator(ctx context.Context) (string, error) {
	operator, ok := ctx.Value(OperatorKey).(string)
	if !ok || operator == "" {
		return "", errors.New("operator not found in context")
	}
	return operator, nil
}
