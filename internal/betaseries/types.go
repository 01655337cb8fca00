package betaseries

// Notes is the aggregate rating block attached to movies and shows. The
// service omits it for unrated items, which decodes to the zero value.
type Notes struct {
	Total int64   `json:"total"`
	Mean  float64 `json:"mean"`
}

// Movie is a catalog entry from /movies/list or /movies/movie.
type Movie struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Notes Notes  `json:"notes"`
}

// Show is a catalog entry from /shows/list.
type Show struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Notes Notes  `json:"notes"`
}

// ListOptions controls a catalog list request. Zero values are omitted from
// the query string.
type ListOptions struct {
	Fields []string
	Limit  int
	Order  string
	Page   int
}

type moviesResponse struct {
	Movies []Movie `json:"movies"`
}

type showsResponse struct {
	Shows []Show `json:"shows"`
}

type movieResponse struct {
	Movie Movie `json:"movie"`
}
