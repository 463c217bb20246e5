package models

import "time"

type Post struct {
	ID              string    `json:"_id" bson:"-"`
	UserID          string    `json:"userId" bson:"userId"`
	FirstName       string    `json:"firstName" bson:"firstName"`
	LastName        string    `json:"lastName" bson:"lastName"`
	Location        string    `json:"location" bson:"location"`
	Description     string    `json:"description" bson:"description"`
	PicturePath     string    `json:"picturePath" bson:"picturePath"`
	UserPicturePath string    `json:"userPicturePath" bson:"userPicturePath"`
	Likes           Likes     `json:"likes" bson:"likes"`
	Comments        Comments  `json:"comments" bson:"comments"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NewPost snapshots the author's profile fields at creation time.
func NewPost(author *User, description, picturePath string) *Post {
	return &Post{
		UserID:          author.ID,
		FirstName:       author.FirstName,
		LastName:        author.LastName,
		Location:        author.Location,
		Description:     description,
		PicturePath:     picturePath,
		UserPicturePath: author.PicturePath,
		Likes:           Likes{},
		Comments:        Comments{},
	}
}

// Normalize replaces nil collections so they encode as {} and [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = Likes{}
	}
	if p.Comments == nil {
		p.Comments = Comments{}
	}
}
