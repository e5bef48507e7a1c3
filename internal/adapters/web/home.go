package web

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Lesson is one entry of the course outline on the home page.
type Lesson struct {
	Number  int
	Title   string
	Summary string
	Link    string
}

// Lessons is the course outline. The capstone follows it.
var Lessons = []Lesson{
	{1, "Project setup", "Create the project, run the development server and see the welcome page.", "/home/"},
	{2, "Views and URLs", "Map paths to handler functions with an ordered routing table.", "/home/"},
	{3, "Models", "Declare the Tour entity with its fields and types.", "/tours/"},
	{4, "Migrations", "Evolve the schema with ordered, versioned migrations.", ""},
	{5, "Interactive shell", "Create, query, update and delete tours from the shell.", ""},
	{6, "Templates", "Render pages from a base layout with loops and conditionals.", "/tours/"},
	{7, "Admin", "Register models with the generic admin site.", "/admin/"},
	{8, "Static files", "Serve stylesheets next to the templates.", "/static/style.css"},
	{9, "Forms", "Validate submitted data against a form table and re-render errors.", "/create/"},
	{10, "Authentication", "Register, log in and protect views behind a session.", "/login/"},
}

// Capstone is the final project of the course.
var Capstone = Lesson{11, "Inventory Management System", "Product CRUD with search, low-stock flags and authentication.", productListURL}

// HomeHandler renders the course home page.
func HomeHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return render(c, http.StatusOK, "home.html", echo.Map{
			"Lessons":  Lessons,
			"Capstone": Capstone,
		})
	}
}

// HealthHandler reports whether the database answers.
func HealthHandler(ping func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if ping != nil {
			if err := ping(c.Request().Context()); err != nil {
				c.Logger().Errorf("health check failed: %v", err)
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	}
}
