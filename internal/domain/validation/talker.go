package validation

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"regexp"
	"unicode/utf8"

	"github.com/okian/talker/internal/domain/model"
)

// TokenLength is the only accepted authorization header length.
const TokenLength = 16

// Messages returned by the talker chain.
const (
	MsgTokenMissing      = "Token não encontrado"
	MsgTokenInvalid      = "Token inválido"
	MsgBodyInvalid       = "Corpo da requisição inválido"
	MsgNameRequired      = `O campo "name" é obrigatório`
	MsgNameTooShort      = `O "name" deve ter pelo menos 3 caracteres`
	MsgAgeRequired       = `O campo "age" é obrigatório`
	MsgAgeUnderage       = "A pessoa palestrante deve ser maior de idade"
	MsgTalkRequired      = `O campo "talk" é obrigatório`
	MsgWatchedAtRequired = `O campo "watchedAt" é obrigatório`
	MsgWatchedAtFormat   = `O campo "watchedAt" deve ter o formato "dd/mm/aaaa"`
	MsgRateRequired      = `O campo "rate" é obrigatório`
	MsgRateRange         = `O campo "rate" deve ser um inteiro de 1 à 5`
)

const (
	minNameLength = 3
	minAge        = 18
	maxAge        = math.MaxInt32
	minRate       = 1
	maxRate       = 5
)

// watchedAtPattern is syntactic only: 31/02/2024 passes.
var watchedAtPattern = regexp.MustCompile(`^(0[0-9]|[12][0-9]|3[01])/(0[0-9]|1[0-2])/[0-9]{4}$`)

// TalkBody is the talk object as sent by clients. Nil means absent or null.
type TalkBody struct {
	WatchedAt *string  `json:"watchedAt"`
	Rate      *float64 `json:"rate"`
}

// TalkerBody is the create/update payload as sent by clients.
type TalkerBody struct {
	Name *string   `json:"name"`
	Age  *float64  `json:"age"`
	Talk *TalkBody `json:"talk"`
}

// Fields converts a body that passed the talker chain into domain fields.
func (b TalkerBody) Fields() model.TalkerFields {
	var f model.TalkerFields
	if b.Name != nil {
		f.Name = *b.Name
	}
	if b.Age != nil {
		f.Age = int(*b.Age)
	}
	if b.Talk != nil {
		if b.Talk.WatchedAt != nil {
			f.Talk.WatchedAt = *b.Talk.WatchedAt
		}
		if b.Talk.Rate != nil {
			f.Talk.Rate = int(*b.Talk.Rate)
		}
	}
	return f
}

// TalkerRequest is what the talker chain inspects: the authorization header
// and the decoded body, or the error decoding it.
type TalkerRequest struct {
	Token   string
	Body    TalkerBody
	BodyErr error
}

// NewTalkerRequest decodes body into a TalkerRequest. Decoding errors are
// kept on the request so that token rules still run first.
func NewTalkerRequest(token string, body io.Reader) TalkerRequest {
	req := TalkerRequest{Token: token}
	req.BodyErr = decodeBody(body, &req.Body)
	return req
}

// errTrailingData rejects bodies with anything after the first JSON value.
var errTrailingData = errors.New("unexpected data after JSON value")

// decodeBody decodes a single JSON value; an empty body decodes as {}.
func decodeBody(r io.Reader, v any) error {
	if r == nil {
		return nil
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}

func isInteger(f float64) bool {
	return !math.IsInf(f, 0) && f == math.Trunc(f)
}

func (r TalkerRequest) watchedAt() *string {
	if r.Body.Talk == nil {
		return nil
	}
	return r.Body.Talk.WatchedAt
}

func (r TalkerRequest) rate() *float64 {
	if r.Body.Talk == nil {
		return nil
	}
	return r.Body.Talk.Rate
}

// TokenRules guard every mutating endpoint.
func TokenRules() []Rule[TalkerRequest] {
	return []Rule[TalkerRequest]{
		{
			Name: "token_presence", Status: http.StatusUnauthorized, Message: MsgTokenMissing,
			Reject: func(r TalkerRequest) bool { return r.Token == "" },
		},
		{
			Name: "token_shape", Status: http.StatusUnauthorized, Message: MsgTokenInvalid,
			Reject: func(r TalkerRequest) bool { return utf8.RuneCountInString(r.Token) != TokenLength },
		},
	}
}

// TalkerChain returns the chain run before create and update.
func TalkerChain() *Chain[TalkerRequest] {
	rules := append(TokenRules(), []Rule[TalkerRequest]{
		{
			Name: "body", Status: http.StatusBadRequest, Message: MsgBodyInvalid,
			Reject: func(r TalkerRequest) bool { return r.BodyErr != nil },
		},
		{
			Name: "name_presence", Status: http.StatusBadRequest, Message: MsgNameRequired,
			Reject: func(r TalkerRequest) bool { return r.Body.Name == nil || *r.Body.Name == "" },
		},
		{
			Name: "name_length", Status: http.StatusBadRequest, Message: MsgNameTooShort,
			Reject: func(r TalkerRequest) bool { return utf8.RuneCountInString(*r.Body.Name) < minNameLength },
		},
		{
			Name: "age_presence", Status: http.StatusBadRequest, Message: MsgAgeRequired,
			Reject: func(r TalkerRequest) bool { return r.Body.Age == nil || *r.Body.Age == 0 },
		},
		{
			Name: "age_range", Status: http.StatusBadRequest, Message: MsgAgeUnderage,
			// Ages beyond int32 cannot be stored faithfully.
			Reject: func(r TalkerRequest) bool {
				age := *r.Body.Age
				return !isInteger(age) || age < minAge || age > maxAge
			},
		},
		{
			Name: "talk_presence", Status: http.StatusBadRequest, Message: MsgTalkRequired,
			Reject: func(r TalkerRequest) bool { return r.Body.Talk == nil },
		},
		{
			Name: "watched_at_presence", Status: http.StatusBadRequest, Message: MsgWatchedAtRequired,
			Reject: func(r TalkerRequest) bool {
				w := r.watchedAt()
				return w == nil || *w == ""
			},
		},
		{
			Name: "watched_at_format", Status: http.StatusBadRequest, Message: MsgWatchedAtFormat,
			Reject: func(r TalkerRequest) bool { return !watchedAtPattern.MatchString(*r.watchedAt()) },
		},
		{
			// 0 is present; it fails the range rule instead.
			Name: "rate_presence", Status: http.StatusBadRequest, Message: MsgRateRequired,
			Reject: func(r TalkerRequest) bool { return r.rate() == nil },
		},
		{
			Name: "rate_range", Status: http.StatusBadRequest, Message: MsgRateRange,
			Reject: func(r TalkerRequest) bool {
				rate := *r.rate()
				return !isInteger(rate) || rate < minRate || rate > maxRate
			},
		},
	}...)
	return NewChain("talker", rules...)
}
