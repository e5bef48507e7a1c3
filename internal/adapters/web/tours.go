package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/stockroom/internal/ports/primary"
)

// TourListHandler lists tours, filtered by ?q= on either country.
func TourListHandler(tours primary.TourService) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := c.QueryParam("q")
		list, err := tours.ListTours(c.Request().Context(), query)
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, "tour_list.html", echo.Map{
			"Tours": list,
			"Query": query,
		})
	}
}
