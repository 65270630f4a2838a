// Package auth handles registration, login and the JWT session cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"Mooring/internal/httputil"
	repo "Mooring/internal/repo"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName  = "session_token"
	sessionTTL  = 30 * 24 * time.Hour
	minPassword = 6
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	userLoginKey contextKey = "userLogin"
)

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, id int, login string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	return context.WithValue(ctx, userLoginKey, login)
}

// UserID returns the authenticated user's id, if any.
func UserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok && id != 0
}

func Login(ctx context.Context) string {
	login, _ := ctx.Value(userLoginKey).(string)
	return login
}

type Authenv struct {
	JWTKey []byte
	Repo   repo.UserRepository
	Log    *slog.Logger
	// Insecure drops the Secure cookie flag for plain HTTP development servers.
	Insecure bool
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Authenv) logger() *slog.Logger {
	if env.Log == nil {
		return slog.Default()
	}
	return env.Log
}

// IssueToken signs a session token for the user.
func (env *Authenv) IssueToken(userID int, login string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"login":   login,
		"exp":     now.Add(sessionTTL).Unix(),
	})
	return token.SignedString(env.JWTKey)
}

// ParseToken verifies the signature and expiry and returns the claimed user.
func (env *Authenv) ParseToken(tokenString string) (int, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return env.JWTKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return 0, "", errors.New("token has no user_id")
	}
	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return 0, "", errors.New("token has no login")
	}
	return int(userID), login, nil
}

func (env *Authenv) userFromRequest(r *http.Request) (int, string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return 0, "", false
	}
	id, login, err := env.ParseToken(cookie.Value)
	if err != nil {
		env.logger().Debug("rejected session token", "error", err)
		return 0, "", false
	}
	return id, login, true
}

// APIMiddleware answers 401 for requests without a valid session.
func (env *Authenv) APIMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, login, ok := env.userFromRequest(r)
		if !ok {
			httputil.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), id, login)))
	})
}

// PageMiddleware redirects browsers without a valid session to the login page.
func (env *Authenv) PageMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, login, ok := env.userFromRequest(r)
		if !ok {
			http.Redirect(w, r, "/auth/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), id, login)))
	})
}

func (env *Authenv) RedirectIfLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := env.userFromRequest(r); ok {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (env *Authenv) setCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   !env.Insecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (env *Authenv) addCookie(w http.ResponseWriter, userID int, login string) error {
	now := time.Now()
	token, err := env.IssueToken(userID, login, now)
	if err != nil {
		return err
	}
	env.setCookie(w, token, now.Add(sessionTTL))
	return nil
}

func (env *Authenv) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	req.Email = strings.TrimSpace(req.Email)
	if req.Login == "" || req.Email == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Login, email and password required")
		return
	}
	if len(req.Password) < minPassword {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Password must be at least %d characters", minPassword))
		return
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		env.logger().Error("hash password", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	id, err := env.Repo.CreateUser(r.Context(), req.Login, req.Email, hashed)
	if errors.Is(err, repo.ErrUserExists) {
		httputil.WriteError(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		env.logger().Error("create user", "login", req.Login, "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	if err := env.addCookie(w, id, req.Login); err != nil {
		env.logger().Error("issue token", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Registration failed")
		return
	}
	env.logger().Info("user registered", "user_id", id)
	httputil.WriteData(w, http.StatusCreated, map[string]any{"id": id, "login": req.Login})
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Login and password required")
		return
	}

	id, storedHash, err := env.Repo.GetByLogin(r.Context(), req.Login)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		env.logger().Error("lookup user", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(req.Password)) != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "Invalid login or password")
		return
	}
	if err := env.addCookie(w, id, req.Login); err != nil {
		env.logger().Error("issue token", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	httputil.WriteData(w, http.StatusOK, map[string]any{"id": id, "login": req.Login})
}

func (env *Authenv) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	env.setCookie(w, "", time.Unix(0, 0))
	w.WriteHeader(http.StatusNoContent)
}
