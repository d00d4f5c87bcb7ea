package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// GameOption is one entry of a session's game list. The stored form is either
// a bare string or a {name, link} object; both decode into this struct.
type GameOption struct {
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

func (o *GameOption) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		o.Name = name
		o.Link = ""
		return nil
	}

	var obj struct {
		Name string `json:"name"`
		Link string `json:"link"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("invalid game option: %w", err)
	}
	o.Name = obj.Name
	o.Link = obj.Link
	return nil
}

func (o GameOption) MarshalJSON() ([]byte, error) {
	if o.Link == "" {
		return json.Marshal(o.Name)
	}
	return json.Marshal(struct {
		Name string `json:"name"`
		Link string `json:"link"`
	}{o.Name, o.Link})
}

// DisplayName is the single accessor for the option's label regardless of
// which stored shape it came from.
func (o GameOption) DisplayName() string {
	return o.Name
}

type GameOptionList []GameOption

func (l *GameOptionList) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

func (l GameOptionList) Value() (driver.Value, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// VoteRanking is the stored ballot. Single-choice voting writes a one-element
// list; only the first element is ever read.
type VoteRanking []int

// Scan decodes leniently: a malformed payload is an abstention, not an error.
func (r *VoteRanking) Scan(value interface{}) error {
	data, err := jsonBytes(value)
	if err != nil || len(data) == 0 {
		*r = nil
		return nil
	}
	var parsed []int
	if err := json.Unmarshal(data, &parsed); err != nil {
		*r = nil
		return nil
	}
	*r = parsed
	return nil
}

func (r VoteRanking) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// First returns the chosen option index, or ok=false for an abstention.
func (r VoteRanking) First() (int, bool) {
	if len(r) == 0 {
		return 0, false
	}
	return r[0], true
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported column type for JSON value")
	}
}
