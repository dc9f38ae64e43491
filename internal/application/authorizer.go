package application

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/aurangzeb-bilal/update-username/internal/infrastructure/introspection"
)

// ScopePolicy selects how many of the recognized scopes a token must carry.
type ScopePolicy string

const (
	// ScopeAny accepts a token granting at least one recognized scope.
	// This is the baseline contract.
	ScopeAny ScopePolicy = "any"
	// ScopeAll requires every recognized scope to be granted.
	ScopeAll ScopePolicy = "all"
)

// ParseScopePolicy maps a config string to a policy, defaulting to ScopeAny.
func ParseScopePolicy(s string) ScopePolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeAll)) {
		return ScopeAll
	}
	return ScopeAny
}

// defaultScopes is the recognized scope set when none is configured.
var defaultScopes = []string{"profile", "user_update", "openid"}

// TokenVerdict is the per-request outcome of bearer-token authorization.
// It is never persisted.
type TokenVerdict struct {
	Accepted        bool
	SubjectUsername string
	ClientID        string
	GrantedScopes   []string
	RejectionReason string
}

// Authorizer decides whether a bearer token authorizes the username-change
// workflow. It holds no mutable state and is safe for concurrent use.
type Authorizer struct {
	introspector introspection.Introspector
	recognized   []string
	policy       ScopePolicy
	logger       *logrus.Logger
}

func NewAuthorizer(in introspection.Introspector, recognized []string, policy ScopePolicy, logger *logrus.Logger) *Authorizer {
	if len(recognized) == 0 {
		recognized = defaultScopes
	}
	return &Authorizer{introspector: in, recognized: recognized, policy: policy, logger: logger}
}

// Authorize resolves a bearer token to a verdict. All failure paths resolve
// to a rejected verdict; it never returns an error and never touches the
// directory. A blank token is rejected without calling the introspector.
func (a *Authorizer) Authorize(ctx context.Context, token string) TokenVerdict {
	token = strings.TrimSpace(token)
	if token == "" {
		return a.reject("missing token", nil)
	}

	res, err := a.introspector.Introspect(ctx, token)
	if err != nil {
		if a.logger != nil {
			a.logger.WithError(err).Warn("token introspection failed")
		}
		return a.reject("introspection failed", nil)
	}
	if res == nil {
		return a.reject("introspection failed", nil)
	}
	if !res.Active {
		return a.reject("token inactive or expired", nil)
	}

	granted := SplitScopes(res.Scope)
	if !a.scopesSatisfy(granted) {
		return a.reject("insufficient scope", granted)
	}

	return TokenVerdict{
		Accepted:        true,
		SubjectUsername: res.Username,
		ClientID:        res.ClientID,
		GrantedScopes:   granted,
	}
}

func (a *Authorizer) reject(reason string, granted []string) TokenVerdict {
	if reason == "insufficient scope" {
		if len(granted) == 0 {
			reason += " (granted: none)"
		} else {
			reason += " (granted: " + strings.Join(granted, " ") + ")"
		}
	}
	return TokenVerdict{Accepted: false, GrantedScopes: granted, RejectionReason: reason}
}

func (a *Authorizer) scopesSatisfy(granted []string) bool {
	have := make(map[string]bool, len(granted))
	for _, s := range granted {
		have[s] = true
	}
	if a.policy == ScopeAll {
		for _, want := range a.recognized {
			if !have[want] {
				return false
			}
		}
		return true
	}
	for _, want := range a.recognized {
		if have[want] {
			return true
		}
	}
	return false
}

// SplitScopes parses a space- or comma-delimited scope string into a slice.
func SplitScopes(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
