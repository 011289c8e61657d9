package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

// User is the identity behind an API key.
type User struct {
	Name   string `json:"name"`
	Tenant string `json:"tenant"`
	Role   string `json:"role"`
}

const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleNormal = "normal"
)

// IsManager reports whether the user may create, edit and delete QA documents.
func (u User) IsManager() bool {
	return u.Role == RoleOwner || u.Role == RoleAdmin
}

func New(apiKeyToUser map[string]User, next http.Handler) *Auth {
	return &Auth{
		Next:         next,
		APIKeyToUser: apiKeyToUser,
	}
}

type Auth struct {
	Next         http.Handler
	APIKeyToUser map[string]User
}

// LoadFromFile reads a JSON object of API keys to users.
func LoadFromFile(name string) (apiKeyToUser map[string]User, err error) {
	f, err := os.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m := make(map[string]User)
	if err = json.NewDecoder(f).Decode(&m); err != nil {
		return nil, err
	}
	for k, u := range m {
		if u.Tenant == "" {
			u.Tenant = u.Name
		}
		if u.Role == "" {
			u.Role = RoleNormal
		}
		m[k] = u
	}
	return m, nil
}

type userContextKey int

const userKey userContextKey = 0

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func GetUser(r *http.Request) (user User, ok bool) {
	user, ok = r.Context().Value(userKey).(User)
	return
}

func (a *Auth) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := a.APIKeyToUser[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	r = r.WithContext(WithUser(r.Context(), user))
	a.Next.ServeHTTP(w, r)
}
