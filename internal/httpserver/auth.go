package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

const userCtxKey = "auth.user"

type User struct {
	Name string
	Role Role
	hash []byte
}

// UserStore holds the accounts allowed to call the API.
type UserStore struct {
	users map[string]User
	// dummy is compared against for unknown names so lookups cost the same.
	dummy []byte
}

// NewUserStore parses name:password:ROLE entries and hashes each password.
func NewUserStore(entries []string, cost int) (*UserStore, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	store := &UserStore{users: make(map[string]User, len(entries))}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		// the password may itself contain colons
		first, last := strings.Index(entry, ":"), strings.LastIndex(entry, ":")
		if first <= 0 || first == last || last-first == 1 {
			return nil, fmt.Errorf("auth: invalid user entry %q, expected name:password:ROLE", entry)
		}
		name, password, rawRole := entry[:first], entry[first+1:last], entry[last+1:]
		role := Role(strings.ToUpper(rawRole))
		if role != RoleAdmin && role != RoleUser {
			return nil, fmt.Errorf("auth: unknown role %q for user %s", rawRole, name)
		}
		if _, dup := store.users[name]; dup {
			return nil, fmt.Errorf("auth: user %s defined twice", name)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash password for %s: %w", name, err)
		}
		store.users[name] = User{Name: name, Role: role, hash: hash}
	}
	if len(store.users) == 0 {
		return nil, fmt.Errorf("auth: no users configured")
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("unused"), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash placeholder: %w", err)
	}
	store.dummy = dummy
	return store, nil
}

// Authenticate checks a name and password pair.
func (s *UserStore) Authenticate(name, password string) (User, bool) {
	u, ok := s.users[name]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		return User{}, false
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return User{}, false
	}
	return u, true
}

func basicAuthMiddleware(store *UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, password, ok := c.Request.BasicAuth()
		if ok {
			if user, valid := store.Authenticate(name, password); valid {
				c.Set(userCtxKey, user)
				c.Next()
				return
			}
		}
		c.Header("WWW-Authenticate", `Basic realm="products"`)
		writeMessage(c, http.StatusUnauthorized, "full authentication is required to access this resource")
	}
}

func requireRole(role Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(userCtxKey)
		user, ok := v.(User)
		if !ok || user.Role != role {
			writeMessage(c, http.StatusForbidden, "access denied")
			return
		}
		c.Next()
	}
}
