package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gigdial/internal/common/database"
	"gigdial/internal/common/errors"
	"gigdial/internal/common/logger"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`

	// Token is forwarded to the backend on the caller's behalf.
	Token string `json:"-"`
}

// Session is resolved once per request and carried in its context.
type Session struct {
	Identity *Identity
}

// Authenticated reports whether the session carries an identity.
func (s Session) Authenticated() bool {
	return s.Identity != nil
}

type sessionKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the request session, anonymous when none was attached.
func SessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}

// CurrentIdentity is the single accessor for the authenticated caller.
func CurrentIdentity(ctx context.Context) (*Identity, bool) {
	s := SessionFrom(ctx)
	return s.Identity, s.Identity != nil
}

// RequireIdentity returns the caller or an AUTH_REQUIRED error carrying loginURL.
func RequireIdentity(ctx context.Context, loginURL string) (*Identity, error) {
	if id, ok := CurrentIdentity(ctx); ok {
		return id, nil
	}
	return nil, errors.NewAuthRequiredError(loginURL)
}

// LoginURL builds a login redirect that resumes at returnTo, optionally carrying an intent id.
func LoginURL(loginPath, returnTo, intentID string) string {
	q := url.Values{}
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}
	if intentID != "" {
		q.Set("intent", intentID)
	}
	if len(q) == 0 {
		return loginPath
	}
	return loginPath + "?" + q.Encode()
}

// Introspector validates a bearer token.
type Introspector interface {
	Introspect(ctx context.Context, token string) (*TokenInfo, error)
}

// Resolver turns bearer tokens into identities, caching positive results in Redis.
type Resolver struct {
	introspector Introspector
	cache        *database.RedisClient
	ttl          time.Duration
	log          logger.Logger
	now          func() time.Time
}

func NewResolver(introspector Introspector, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		introspector: introspector,
		cache:        cache,
		ttl:          ttl,
		log:          log,
		now:          time.Now,
	}
}

func sessionCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "gigdial:session:" + hex.EncodeToString(sum[:])
}

// Resolve returns the identity for token.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	key := sessionCacheKey(token)

	if r.cache != nil {
		var cached Identity
		err := r.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			cached.Token = token
			return &cached, nil
		}
		if !stderrors.Is(err, database.ErrCacheMiss) {
			r.log.Warn("session cache read failed", map[string]interface{}{"error": err})
		}
	}

	info, err := r.introspector.Introspect(ctx, token)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		UserID:   info.Sub,
		Username: firstNonEmpty(info.PreferredUsername, info.Username),
		Email:    info.Email,
		Name:     info.Name,
		Token:    token,
	}

	if r.cache != nil {
		ttl := r.ttl
		if info.Exp > 0 {
			if untilExp := time.Unix(info.Exp, 0).Sub(r.now()); untilExp < ttl {
				ttl = untilExp
			}
		}
		if ttl > 0 {
			if err := r.cache.SetJSON(ctx, key, id, ttl); err != nil {
				r.log.Warn("session cache write failed", map[string]interface{}{"error": err})
			}
		}
	}
	return id, nil
}

// Middleware resolves the bearer token once and stores the Session in the request
// context. Missing, inactive or unverifiable tokens yield an anonymous session.
func Middleware(resolver *Resolver, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := Session{}
			if token := BearerToken(r); token != "" && resolver != nil {
				id, err := resolver.Resolve(r.Context(), token)
				if err != nil {
					logger.FromContext(r.Context(), log).Info("bearer token rejected", map[string]interface{}{
						"errorCode": string(errors.AsStandard(err).Code),
					})
				} else {
					session.Identity = id
				}
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
