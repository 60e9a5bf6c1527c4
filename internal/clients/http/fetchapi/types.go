package fetchapi

// Dog is the wire form of a dog record.
type Dog struct {
	ID      string `json:"id"`
	Img     string `json:"img"`
	Name    string `json:"name"`
	Age     int    `json:"age"`
	ZipCode string `json:"zip_code"`
	Breed   string `json:"breed"`
}

// SearchParams are the optional and required query parameters of GET /dogs/search.
type SearchParams struct {
	Breeds []string
	AgeMin *int
	AgeMax *int
	Sort   string
	Size   int
	From   string
}

// SearchResult is the body of GET /dogs/search.
type SearchResult struct {
	ResultIDs []string `json:"resultIds"`
	Total     int      `json:"total"`
	Next      string   `json:"next,omitempty"`
	Prev      string   `json:"prev,omitempty"`
}

// Match is the body of POST /dogs/match.
type Match struct {
	Match string `json:"match"`
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
