package fetchapi

import (
	fetchclient "github.com/Apurer/go-dog-finder/internal/clients/http/fetchapi"
	"github.com/Apurer/go-dog-finder/internal/domains/dogs/domain"
)

// ToParams converts a domain query into client parameters.
func ToParams(q domain.SearchQuery) fetchclient.SearchParams {
	return fetchclient.SearchParams{
		Breeds: q.Breeds,
		AgeMin: q.AgeMin,
		AgeMax: q.AgeMax,
		Sort:   q.Sort,
		Size:   q.Size,
		From:   q.From,
	}
}

// ToPage converts a search answer. Cursor tokens are copied untouched.
func ToPage(r fetchclient.SearchResult) domain.SearchPage {
	return domain.SearchPage{
		Total:     r.Total,
		ResultIDs: r.ResultIDs,
		Cursor:    domain.PageCursor{Next: r.Next, Prev: r.Prev},
	}
}

// ToDomain converts a wire record.
func ToDomain(d fetchclient.Dog) domain.Dog {
	return domain.Dog{
		ID:       d.ID,
		Name:     d.Name,
		Breed:    d.Breed,
		Age:      d.Age,
		ZipCode:  d.ZipCode,
		ImageURL: d.Img,
	}
}
