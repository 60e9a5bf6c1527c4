package mapper

import (
	"github.com/Apurer/go-dog-finder/internal/domains/catalog/domain"
)

// Dog is the JSON shape of a catalog record.
type Dog struct {
	ID      string `json:"id"`
	Img     string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SearchResponse is the body of GET /dogs/search.
type SearchResponse struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}

// MatchResponse is the body of POST /dogs/match.
type MatchResponse struct {
	Match string `json:"match"`
}

func FromDog(d domain.Dog) Dog {
	return Dog{ID: d.ID, Img: d.ImageURL, Name: d.Name, Age: d.Age, ZipCode: d.ZipCode, Breed: d.Breed}
}

func FromDogs(dogs []domain.Dog) []Dog {
	out := make([]Dog, 0, len(dogs))
	for _, d := range dogs {
		out = append(out, FromDog(d))
	}
	return out
}

func ToDog(d Dog) domain.Dog {
	return domain.Dog{ID: d.ID, ImageURL: d.Img, Name: d.Name, Age: d.Age, ZipCode: d.ZipCode, Breed: d.Breed}
}

func FromPage(p domain.Page) SearchResponse {
	ids := p.IDs
	if ids == nil {
		ids = []string{}
	}
	return SearchResponse{ResultIDs: ids, Total: p.Total, Next: p.Next, Prev: p.Prev}
}
