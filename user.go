package mbaas

import (
	"context"

	"github.com/mbaas/mbaas.go/pkg/connection"
	"github.com/mbaas/mbaas.go/pkg/constants"
	"github.com/mbaas/mbaas.go/pkg/filestore"
	"github.com/mbaas/mbaas.go/pkg/models"
)

// NewUser creates a user to sign up.
func NewUser() *Record {
	return NewRecord(constants.KindUser)
}

// UserName returns the login name.
func (r *Record) UserName() string {
	s, _ := r.GetString(constants.FieldUserName)
	return s
}

// SetUserName sets the login name.
func (r *Record) SetUserName(name string) {
	r.Set(constants.FieldUserName, models.String(name))
}

// MailAddress returns the mail address.
func (r *Record) MailAddress() string {
	s, _ := r.GetString(constants.FieldMailAddress)
	return s
}

// SetMailAddress sets the mail address.
func (r *Record) SetMailAddress(address string) {
	r.Set(constants.FieldMailAddress, models.String(address))
}

// SetPassword stages a new password. It is sent on the next save and never
// persisted locally.
func (r *Record) SetPassword(password string) {
	r.setDirect(constants.FieldPassword, models.String(password), true)
}

// SessionToken is set by sign-up and login.
func (r *Record) SessionToken() string {
	s, _ := r.GetString(constants.FieldSessionToken)
	return s
}

// MailAddressConfirmed reports the service's confirmation flag.
func (r *Record) MailAddressConfirmed() bool {
	b, _ := r.Get(constants.FieldMailConfirm).(models.Bool)
	return bool(b)
}

// SignUpTask registers user and makes it the current user, whatever was
// current before.
func (c *Client) SignUpTask(user *Record) *Task[*Record] {
	return newTask(func(ctx context.Context) (*Record, error) {
		return user, c.save(ctx, user, true)
	})
}

// SignUp registers user and blocks until the service answers.
func (c *Client) SignUp(ctx context.Context, user *Record) error {
	_, err := c.SignUpTask(user).Wait(ctx)
	return err
}

// SignUpInBackground runs SignUp on its own goroutine and reports to callback.
func (c *Client) SignUpInBackground(ctx context.Context, user *Record, callback Callback[*Record]) {
	c.SignUpTask(user).Go(ctx, callback)
}

// LoginTask authenticates and replaces the current user with the answer.
func (c *Client) LoginTask(userName, password string) *Task[*Record] {
	return newTask(func(ctx context.Context) (*Record, error) {
		return c.login(ctx, userName, password)
	})
}

// Login authenticates and returns the new current user.
func (c *Client) Login(ctx context.Context, userName, password string) (*Record, error) {
	return c.LoginTask(userName, password).Wait(ctx)
}

// LoginInBackground runs Login on its own goroutine and reports to callback.
func (c *Client) LoginInBackground(ctx context.Context, userName, password string, callback Callback[*Record]) {
	c.LoginTask(userName, password).Go(ctx, callback)
}

// LogoutTask ends the session and forgets the current user.
func (c *Client) LogoutTask() *Task[struct{}] {
	return newTask(func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.logout(ctx)
	})
}

// Logout ends the session. The current user is kept when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.LogoutTask().Wait(ctx)
	return err
}

// LogoutInBackground runs Logout on its own goroutine and reports to callback.
func (c *Client) LogoutInBackground(ctx context.Context, callback Callback[struct{}]) {
	c.LogoutTask().Go(ctx, callback)
}

func (c *Client) login(ctx context.Context, userName, password string) (*Record, error) {
	c.log.Debug("logging in", "userName", userName)
	raw, err := c.callRaw(ctx, &connection.Request{
		Method: connection.MethodGet,
		Path:   "login",
		Query: map[string]string{
			constants.FieldUserName: userName,
			constants.FieldPassword: password,
		},
	})
	if err != nil {
		return nil, err
	}

	user, err := NewRecordFromMap(constants.KindUser, raw)
	if err != nil {
		return nil, err
	}
	c.replaceCurrent(filestore.CurrentUser, user)
	return user, nil
}

func (c *Client) logout(ctx context.Context) error {
	c.log.Debug("logging out")
	if _, err := c.callRaw(ctx, &connection.Request{
		Method: connection.MethodGet,
		Path:   "logout",
	}); err != nil {
		return err
	}
	if err := c.current.Clear(filestore.CurrentUser); err != nil {
		c.log.Warn("failed to clear current user", "error", err)
	}
	return nil
}
