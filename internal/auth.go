package internal

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	emailPattern          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordUpperPattern  = regexp.MustCompile(`[A-Z]`)
	passwordLowerPattern  = regexp.MustCompile(`[a-z]`)
	passwordDigitPattern  = regexp.MustCompile(`[0-9]`)
	passwordSymbolPattern = regexp.MustCompile(`[!@#$%^&*]`)
)

// MinPasswordLength is the shortest accepted signup password
const MinPasswordLength = 8

// SignupForm holds the signup fields. Passwords are only validated, never stored.
type SignupForm struct {
	FullName        string
	Email           string
	Username        string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// User is the locally remembered account
type User struct {
	Username string `json:"username" yaml:"username"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	FullName string `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	ID       string `json:"userId,omitempty" yaml:"userId,omitempty"`
}

// PasswordRequirements reports which password rules password satisfies
type PasswordRequirements struct {
	Length    bool
	Uppercase bool
	Lowercase bool
	Number    bool
	Special   bool
}

// Met reports whether every rule holds
func (r PasswordRequirements) Met() bool {
	return r.Length && r.Uppercase && r.Lowercase && r.Number && r.Special
}

// CheckPassword evaluates the password rules
func CheckPassword(password string) PasswordRequirements {
	return PasswordRequirements{
		Length:    len(password) >= MinPasswordLength,
		Uppercase: passwordUpperPattern.MatchString(password),
		Lowercase: passwordLowerPattern.MatchString(password),
		Number:    passwordDigitPattern.MatchString(password),
		Special:   passwordSymbolPattern.MatchString(password),
	}
}

// ValidEmail reports whether email looks like name@host.tld
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// AuthManager keeps the logged-in flags in the KV store. There is no real
// authentication: any non-empty username and password logs in.
type AuthManager struct {
	kv    KVStore
	newID func() string
}

// NewAuthManager creates an AuthManager over kv
func NewAuthManager(kv KVStore) *AuthManager {
	return &AuthManager{kv: kv, newID: func() string { return uuid.NewString() }}
}

// Login records username as logged in
func (a *AuthManager) Login(username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, &ValidationError{Message: "Please fill in all fields"}
	}

	if err := a.setAll(map[string]string{
		LoggedInKey: "true",
		UsernameKey: username,
	}); err != nil {
		return nil, err
	}

	LogDebug("Logged in as %s", username)
	return a.CurrentUser()
}

// Signup validates form, then records the new user as logged in
func (a *AuthManager) Signup(form SignupForm) (*User, error) {
	if err := ValidateSignup(form); err != nil {
		return nil, err
	}

	if err := a.setAll(map[string]string{
		LoggedInKey:  "true",
		UsernameKey:  form.Username,
		UserEmailKey: form.Email,
		FullNameKey:  form.FullName,
		UserIDKey:    a.newID(),
	}); err != nil {
		return nil, err
	}

	LogDebug("Signed up %s <%s>", form.Username, form.Email)
	return a.CurrentUser()
}

// ValidateSignup checks the form in the order the rules are shown to the user
func ValidateSignup(form SignupForm) error {
	if form.FullName == "" || form.Email == "" || form.Username == "" || form.Password == "" || form.ConfirmPassword == "" {
		return &ValidationError{Message: "Please fill in all fields"}
	}
	if !ValidEmail(form.Email) {
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if !CheckPassword(form.Password).Met() {
		return &ValidationError{Field: "password", Message: "Password does not meet requirements"}
	}
	if form.Password != form.ConfirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	if !form.AcceptTerms {
		return &ValidationError{Field: "terms", Message: "Please accept the Terms of Service"}
	}
	return nil
}

func (a *AuthManager) setAll(values map[string]string) error {
	// fixed order so a failed write leaves a predictable prefix behind
	for _, key := range []string{LoggedInKey, UsernameKey, UserEmailKey, FullNameKey, UserIDKey} {
		v, ok := values[key]
		if !ok {
			continue
		}
		if err := a.kv.Set(key, v); err != nil {
			return err
		}
	}
	return nil
}

// Logout clears every auth flag
func (a *AuthManager) Logout() error {
	for _, key := range []string{LoggedInKey, UsernameKey, UserEmailKey, FullNameKey, UserIDKey} {
		if err := a.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// IsLoggedIn reports whether the logged-in flag is set
func (a *AuthManager) IsLoggedIn() (bool, error) {
	v, ok, err := a.kv.Get(LoggedInKey)
	if err != nil {
		return false, err
	}
	return ok && strings.EqualFold(v, "true"), nil
}

// CurrentUser returns the logged-in user, or nil when nobody is logged in
func (a *AuthManager) CurrentUser() (*User, error) {
	loggedIn, err := a.IsLoggedIn()
	if err != nil || !loggedIn {
		return nil, err
	}

	get := func(key string) (string, error) {
		v, _, err := a.kv.Get(key)
		return v, err
	}

	var user User
	for _, f := range []struct {
		key string
		dst *string
	}{
		{UsernameKey, &user.Username},
		{UserEmailKey, &user.Email},
		{FullNameKey, &user.FullName},
		{UserIDKey, &user.ID},
	} {
		v, err := get(f.key)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}
	return &user, nil
}
