package fakeexchanger

import (
	"context"
	"sync"

	"github.com/jrsteele09/riskdesk/auth"
	"github.com/jrsteele09/riskdesk/sessions"
)

var _ auth.Exchanger = (*FakeExchanger)(nil)

// Credentials identifies one account known to the fake.
type Credentials struct {
	Email    string
	Password string
}

// FakeExchanger answers logins from a fixed account table.
type FakeExchanger struct {
	accounts map[Credentials]*sessions.AuthSession
	lock     sync.RWMutex

	LoginErr  error
	LogoutErr error

	LoginCalls   int
	LogoutTokens []string
}

func NewFakeExchanger() *FakeExchanger {
	return &FakeExchanger{
		accounts: make(map[Credentials]*sessions.AuthSession),
	}
}

// AddAccount makes email/password log in as session.
func (fe *FakeExchanger) AddAccount(email, password string, session *sessions.AuthSession) {
	fe.lock.Lock()
	defer fe.lock.Unlock()
	fe.accounts[Credentials{Email: email, Password: password}] = session
}

func (fe *FakeExchanger) Login(_ context.Context, email, password string) (*sessions.AuthSession, error) {
	fe.lock.Lock()
	defer fe.lock.Unlock()

	fe.LoginCalls++
	if fe.LoginErr != nil {
		return nil, fe.LoginErr
	}
	session, ok := fe.accounts[Credentials{Email: email, Password: password}]
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}
	copied := *session
	return &copied, nil
}

func (fe *FakeExchanger) Logout(_ context.Context, accessToken string) error {
	fe.lock.Lock()
	defer fe.lock.Unlock()

	fe.LogoutTokens = append(fe.LogoutTokens, accessToken)
	return fe.LogoutErr
}
