package validation

import (
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/okian/talker/internal/domain/model"
)

// Messages returned by the login chain.
const (
	MsgEmailRequired    = `O campo "email" é obrigatório`
	MsgPasswordRequired = `O campo "password" é obrigatório`
	MsgEmailFormat      = `O "email" deve ter o formato "email@email.com"`
	MsgPasswordTooShort = `O "password" deve ter pelo menos 6 caracteres`
)

const minPasswordLength = 6

var validate = validator.New()

// LoginRequest is what the login chain inspects.
type LoginRequest struct {
	Body    model.Credentials
	BodyErr error
}

// NewLoginRequest decodes body into a LoginRequest.
func NewLoginRequest(body io.Reader) LoginRequest {
	var req LoginRequest
	req.BodyErr = decodeBody(body, &req.Body)
	return req
}

// LoginChain returns the chain run before issuing a token.
func LoginChain() *Chain[LoginRequest] {
	return NewChain("login",
		Rule[LoginRequest]{
			Name: "body", Status: http.StatusBadRequest, Message: MsgBodyInvalid,
			Reject: func(r LoginRequest) bool { return r.BodyErr != nil },
		},
		Rule[LoginRequest]{
			Name: "email_presence", Status: http.StatusBadRequest, Message: MsgEmailRequired,
			Reject: func(r LoginRequest) bool { return r.Body.Email == "" },
		},
		Rule[LoginRequest]{
			Name: "password_presence", Status: http.StatusBadRequest, Message: MsgPasswordRequired,
			Reject: func(r LoginRequest) bool { return r.Body.Password == "" },
		},
		Rule[LoginRequest]{
			Name: "email_format", Status: http.StatusBadRequest, Message: MsgEmailFormat,
			Reject: func(r LoginRequest) bool { return validate.Var(r.Body.Email, "email") != nil },
		},
		Rule[LoginRequest]{
			Name: "password_length", Status: http.StatusBadRequest, Message: MsgPasswordTooShort,
			Reject: func(r LoginRequest) bool { return utf8.RuneCountInString(r.Body.Password) < minPasswordLength },
		},
	)
}
