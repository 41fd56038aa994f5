// Package session implements the sealed-cookie session gate. Session state
// lives entirely in a signed, encrypted cookie; there is no server-side
// session store and no process-wide singleton; the codec is threaded
// through each handler that needs it.
package session

import (
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
)

// CookieName identifies the intake session cookie.
const CookieName = "voice_intake_session"

// DefaultMaxAge bounds a session to one hour.
const DefaultMaxAge = 3600

// UserData mirrors the allow-list row captured at login.
type UserData struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// Data is the authenticated state carried by the cookie.
type Data struct {
	Email string   `json:"user_email"`
	User  UserData `json:"user_data"`
}

// Codec seals and unseals session cookies.
type Codec struct {
	sc     *securecookie.SecureCookie
	maxAge int
	secure bool
}

// CodecOption applies a configuration option to the Codec.
type CodecOption func(*Codec)

// WithMaxAge bounds the cookie lifetime in seconds.
func WithMaxAge(seconds int) CodecOption {
	return func(c *Codec) {
		if seconds > 0 {
			c.maxAge = seconds
		}
	}
}

// WithSecure marks issued cookies Secure (for TLS deployments).
func WithSecure(secure bool) CodecOption {
	return func(c *Codec) {
		c.secure = secure
	}
}

// NewCodec creates a codec from a hash key (required, 32 or 64 bytes) and an
// optional block key (16, 24 or 32 bytes) enabling encryption on top of
// signing.
func NewCodec(hashKey, blockKey []byte, opts ...CodecOption) (*Codec, error) {
	if len(hashKey) == 0 {
		return nil, fmt.Errorf("%w: empty hash key", ErrBadKeys)
	}
	c := &Codec{
		sc:     securecookie.New(hashKey, blockKey),
		maxAge: DefaultMaxAge,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sc.MaxAge(c.maxAge)
	return c, nil
}

// Issue seals data into a session cookie on the response.
func (c *Codec) Issue(w http.ResponseWriter, data Data) error {
	encoded, err := c.sc.Encode(CookieName, data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSeal, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   c.maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read unseals the session cookie from the request. A missing, expired or
// tampered cookie yields ErrNoSession.
func (c *Codec) Read(r *http.Request) (Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Data{}, ErrNoSession
	}
	var data Data
	if err := c.sc.Decode(CookieName, cookie.Value, &data); err != nil {
		return Data{}, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	if data.Email == "" {
		return Data{}, ErrNoSession
	}
	return data, nil
}

// Clear invalidates the session cookie on the response.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
