package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// AnswerKind tells which shape a submitted answer arrived in
type AnswerKind int

const (
	AnswerOther     AnswerKind = iota // number, array, null
	AnswerToken                       // string or boolean
	AnswerChecklist                   // object of item id -> checked
)

// Skip sentinels exclude a question from scoring entirely.
const (
	AnswerNotApplicable = "not_applicable"
	AnswerNA            = "na"
)

// AnswerValue is a submitted answer. BINARY and CHOICE answers are tokens,
// MULTI_CHECK answers are checklists.
type AnswerValue struct {
	Kind   AnswerKind
	Token  string
	Checks map[string]bool
}

// Answers maps question id to submitted answer
type Answers map[string]AnswerValue

// TokenAnswer builds a token answer.
func TokenAnswer(token string) AnswerValue {
	return AnswerValue{Kind: AnswerToken, Token: token}
}

// ChecklistAnswer builds a checklist answer.
func ChecklistAnswer(checks map[string]bool) AnswerValue {
	if checks == nil {
		checks = map[string]bool{}
	}
	return AnswerValue{Kind: AnswerChecklist, Checks: checks}
}

// IsSkip reports whether the answer is a "not applicable" sentinel.
func (a AnswerValue) IsSkip() bool {
	if a.Kind != AnswerToken {
		return false
	}
	t := strings.ToLower(strings.TrimSpace(a.Token))
	return t == AnswerNotApplicable || t == AnswerNA
}

// UnmarshalJSON accepts a string, a boolean or an object of booleans.
// Non-boolean checklist entries count as unchecked.
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = TokenAnswer(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*a = TokenAnswer(fmt.Sprintf("%t", b))
	case '{':
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		checks := make(map[string]bool, len(raw))
		for id, v := range raw {
			checked, _ := v.(bool)
			checks[id] = checked
		}
		*a = ChecklistAnswer(checks)
	default:
		*a = AnswerValue{Kind: AnswerOther, Token: string(data)}
	}
	return nil
}

// MarshalJSON writes the answer back in the shape it was submitted.
// Other answers keep their raw JSON text in Token.
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerToken:
		return json.Marshal(a.Token)
	case AnswerChecklist:
		return json.Marshal(a.Checks)
	default:
		if a.Token == "" || !json.Valid([]byte(a.Token)) {
			return []byte("null"), nil
		}
		return []byte(a.Token), nil
	}
}

// MarshalBSONValue stores tokens as strings, checklists as documents and
// other answers as binary holding their raw JSON text.
func (a AnswerValue) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch a.Kind {
	case AnswerToken:
		return bson.MarshalValue(a.Token)
	case AnswerChecklist:
		return bson.MarshalValue(a.Checks)
	default:
		return bson.MarshalValue([]byte(a.Token))
	}
}

// UnmarshalBSONValue is the inverse of MarshalBSONValue.
func (a *AnswerValue) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*a = TokenAnswer(raw.StringValue())
	case bsontype.EmbeddedDocument:
		var checks map[string]bool
		if err := raw.Unmarshal(&checks); err != nil {
			return err
		}
		*a = ChecklistAnswer(checks)
	case bsontype.Binary:
		_, b := raw.Binary()
		*a = AnswerValue{Kind: AnswerOther, Token: string(b)}
	default:
		*a = AnswerValue{Kind: AnswerOther}
	}
	return nil
}
