package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Likes is the set of user ids that currently like a post.
type Likes map[string]bool

// Toggle flips userID's like and reports whether the post is now liked.
func (l Likes) Toggle(userID string) bool {
	if l[userID] {
		delete(l, userID)
		return false
	}
	l[userID] = true
	return true
}

func (l Likes) Value() (driver.Value, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l)
}

func (l *Likes) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := Likes{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*l = out
	return nil
}

// Comments is append-only; no operation populates it yet.
type Comments []string

func (c Comments) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

func (c *Comments) Scan(src interface{}) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return err
	}
	out := Comments{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return err
		}
	}
	*c = out
	return nil
}

func jsonBytes(src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
