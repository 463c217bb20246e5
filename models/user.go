package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when no record matches the lookup.
var ErrNotFound = errors.New("record not found")

type User struct {
	ID            string    `json:"_id" bson:"-"`
	FirstName     string    `json:"firstName" bson:"firstName"`
	LastName      string    `json:"lastName" bson:"lastName"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"password,omitempty" bson:"password"`
	PicturePath   string    `json:"picturePath" bson:"picturePath"`
	Friends       []string  `json:"friends" bson:"friends"`
	Location      string    `json:"location" bson:"location"`
	Occupation    string    `json:"occupation" bson:"occupation"`
	ViewedProfile int       `json:"viewedProfile" bson:"viewedProfile"`
	Impressions   int       `json:"impressions" bson:"impressions"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

// HasFriend reports whether id appears anywhere in the friend list.
func (u *User) HasFriend(id string) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// RemoveFriend drops every occurrence of id from the friend list.
func (u *User) RemoveFriend(id string) {
	kept := make([]string, 0, len(u.Friends))
	for _, f := range u.Friends {
		if f != id {
			kept = append(kept, f)
		}
	}
	u.Friends = kept
}

func (u *User) AddFriend(id string) {
	u.Friends = append(u.Friends, id)
}

// Summary projects the public profile fields shown in friend lists.
func (u *User) Summary() *FriendSummary {
	return &FriendSummary{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Occupation:  u.Occupation,
		Location:    u.Location,
		PicturePath: u.PicturePath,
	}
}

type FriendSummary struct {
	ID          string `json:"_id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Occupation  string `json:"occupation"`
	Location    string `json:"location"`
	PicturePath string `json:"picturePath"`
}

// Normalize replaces a nil friend list so it encodes as [].
func (u *User) Normalize() {
	if u.Friends == nil {
		u.Friends = []string{}
	}
}
