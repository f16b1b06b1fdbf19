package cart

import "sneakershop/models"

// Session keeps the logged in user's token next to the cart.
type Session struct {
	storage Storage
}

func NewSession(storage Storage) *Session {
	return &Session{storage: storage}
}

// Save stores the token and public user returned by a login.
func (s *Session) Save(resp *models.LoginResp) error {
	if err := s.storage.Set(KeyToken, resp.Token); err != nil {
		return err
	}
	return s.storage.Set(KeyUserInfo, resp.User)
}

// Token returns the stored token, or "" when logged out.
func (s *Session) Token() (string, error) {
	var token string
	if _, err := s.storage.Get(KeyToken, &token); err != nil {
		return "", err
	}
	return token, nil
}

// User returns the stored user, or nil when logged out.
func (s *Session) User() (*models.User, error) {
	var u models.User
	ok, err := s.storage.Get(KeyUserInfo, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *Session) Logout() error {
	if err := s.storage.Remove(KeyToken); err != nil {
		return err
	}
	return s.storage.Remove(KeyUserInfo)
}
