package params

import "github.com/labstack/echo/v4"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryParams carries common listing parameters
type QueryParams struct {
	PageNumber int
	PageSize   int
	Search     string
}

// FromEchoContext extracts listing parameters from the request query string
func FromEchoContext(ctx echo.Context) QueryParams {
	p := QueryParams{
		PageNumber: 1,
		PageSize:   defaultPageSize,
		Search:     ctx.QueryParam("search"),
	}
	if n := atoi(ctx.QueryParam("page")); n > 0 {
		p.PageNumber = n
	}
	if n := atoi(ctx.QueryParam("page_size")); n > 0 {
		p.PageSize = n
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
