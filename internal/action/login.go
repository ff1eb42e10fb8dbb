package action

import (
	"context"

	"github.com/rs/zerolog"

	"mlactions/internal/hub"
	"mlactions/internal/status"
)

// Status lines written by Login.
const (
	msgAlreadyLoggedIn = "already logged in"
	msgLoggedIn        = "logged in"
	msgCannotLogIn     = "cannot log in - did you provide a correct hf_token?"
)

// LoginResult enumerates how a login attempt ended.
type LoginResult int

const (
	// Authenticated means the existing session was already valid.
	Authenticated LoginResult = iota
	// ReauthenticatedWithToken means hf_token was accepted.
	ReauthenticatedWithToken
	// LoginFailed means neither the session nor hf_token worked.
	LoginFailed
)

func (r LoginResult) String() string {
	switch r {
	case Authenticated:
		return "authenticated"
	case ReauthenticatedWithToken:
		return "reauthenticated_with_token"
	default:
		return "failed"
	}
}

// LoginOutcome is the result of Login. Reason is set when Result is LoginFailed.
type LoginOutcome struct {
	Result LoginResult
	Reason error
}

// OK reports whether the session is usable.
func (o LoginOutcome) OK() bool { return o.Result != LoginFailed }

// Login checks the session and, if it is not valid, logs in with the
// hf_token argument. A line describing the outcome is always written to st.
func Login(ctx context.Context, sess hub.Session, args Args, st *status.Log, log zerolog.Logger) LoginOutcome {
	_, err := sess.WhoAmI(ctx)
	if err == nil {
		st.Write(msgAlreadyLoggedIn)
		return LoginOutcome{Result: Authenticated}
	}
	log.Debug().Err(err).Msg("no valid hub session")
	if err := sess.Login(ctx, trimmed(args.String(ArgHFToken))); err != nil {
		st.Write(msgCannotLogIn)
		log.Warn().Err(err).Msg("hub login failed")
		return LoginOutcome{Result: LoginFailed, Reason: err}
	}
	st.Write(msgLoggedIn)
	return LoginOutcome{Result: ReauthenticatedWithToken}
}
