package politician

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrAlreadyExists = errors.New("politician already exists in the directory")

// Politician is a directory entry. (Name, Party) is the uniqueness key.
type Politician struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Party     string    `json:"party"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type View struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Party    string `json:"party"`
	ImageURL string `json:"image_url"`
}

func (p Politician) View() View {
	return View{ID: p.ID, Name: p.Name, Party: p.Party, ImageURL: p.ImageURL}
}

type CreatePoliticianRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Party    string `json:"party" binding:"required,max=200"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
}

func New(name, party, imageURL string, now time.Time) Politician {
	return Politician{
		ID:        uuid.NewString(),
		Name:      name,
		Party:     party,
		ImageURL:  imageURL,
		CreatedAt: now,
	}
}
