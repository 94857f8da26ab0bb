package response

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Pagination is the paginated collection body clients consume
type Pagination[T any] struct {
	CurrentPage  int     `json:"current_page"`
	Data         []T     `json:"data"`
	FirstPageURL string  `json:"first_page_url"`
	From         *int    `json:"from"`
	LastPage     int     `json:"last_page"`
	LastPageURL  string  `json:"last_page_url"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           *int    `json:"to"`
	Total        int64   `json:"total"`
}

// NewPagination describes page of items out of total rows. path is the
// absolute collection URL without a query string.
func NewPagination[T any](items []T, page, perPage int, total int64, path string) Pagination[T] {
	if page < 1 {
		page = 1
	}
	if items == nil {
		items = []T{}
	}

	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}

	p := Pagination[T]{
		CurrentPage:  page,
		Data:         items,
		FirstPageURL: pageURL(path, 1),
		LastPage:     lastPage,
		LastPageURL:  pageURL(path, lastPage),
		Path:         path,
		PerPage:      perPage,
		Total:        total,
	}

	if len(items) > 0 {
		from := (page-1)*perPage + 1
		to := from + len(items) - 1
		p.From = &from
		p.To = &to
	}
	if page < lastPage {
		next := pageURL(path, page+1)
		p.NextPageURL = &next
	}
	if page > 1 {
		prev := pageURL(path, page-1)
		p.PrevPageURL = &prev
	}
	return p
}

func pageURL(path string, page int) string {
	return path + "?page=" + strconv.Itoa(page)
}

// RequestPath returns scheme://host/path of the current request
func RequestPath(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host + c.Request().URL.Path
}
