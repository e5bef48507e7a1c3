package web

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/core/product"
	"github.com/example/stockroom/internal/monitoring"
	"github.com/example/stockroom/internal/ports/primary"
)

const productListURL = "/list/"

// ProductListHandler lists products, filtered by ?q= on name or SKU.
func ProductListHandler(products primary.ProductService, threshold int) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := c.QueryParam("q")
		list, err := products.ListProducts(c.Request().Context(), query)
		if err != nil {
			return err
		}

		low := 0
		for _, p := range list {
			if p.LowStock {
				low++
			}
		}
		if query == "" {
			monitoring.SetLowStockProducts(low)
		}

		return render(c, http.StatusOK, "product_list.html", echo.Map{
			"Products":  list,
			"Query":     query,
			"LowStock":  low,
			"Threshold": threshold,
		})
	}
}

// ProductDetailHandler shows one product.
func ProductDetailHandler(products primary.ProductService, idParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, idParam)
		if err != nil {
			return err
		}
		p, err := products.GetProduct(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, "product_detail.html", echo.Map{"Product": p})
	}
}

// ProductCreateHandler renders an empty form on GET and creates on POST.
func ProductCreateHandler(products primary.ProductService) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return renderProductForm(c, http.StatusOK, nil, form.Data{}, nil)
		}

		data, err := formData(c)
		if err != nil {
			return err
		}
		_, err = products.CreateProduct(c.Request().Context(), data)
		monitoring.RecordProductMutation("create", err)
		if v, ok := primary.AsValidationError(err); ok {
			return renderProductForm(c, http.StatusOK, nil, data, v.FormErrors())
		}
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, productListURL)
	}
}

// ProductUpdateHandler renders the form pre-populated on GET and saves on POST.
func ProductUpdateHandler(products primary.ProductService, idParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := pathID(c, idParam)
		if err != nil {
			return err
		}
		existing, err := products.GetProduct(ctx, id)
		if err != nil {
			return err
		}

		if c.Request().Method != http.MethodPost {
			return renderProductForm(c, http.StatusOK, existing, existing.FormData(), nil)
		}

		data, err := formData(c)
		if err != nil {
			return err
		}
		_, err = products.UpdateProduct(ctx, id, data)
		monitoring.RecordProductMutation("update", err)
		if v, ok := primary.AsValidationError(err); ok {
			return renderProductForm(c, http.StatusOK, existing, data, v.FormErrors())
		}
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, productListURL)
	}
}

// ProductDeleteHandler asks for confirmation on GET and deletes on POST.
func ProductDeleteHandler(products primary.ProductService, idParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := pathID(c, idParam)
		if err != nil {
			return err
		}
		p, err := products.GetProduct(ctx, id)
		if err != nil {
			return err
		}

		if c.Request().Method != http.MethodPost {
			return render(c, http.StatusOK, "product_confirm_delete.html", echo.Map{"Product": p})
		}

		err = products.DeleteProduct(ctx, id)
		monitoring.RecordProductMutation("delete", err)
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, productListURL)
	}
}

func renderProductForm(c echo.Context, code int, p *primary.Product, data form.Data, errs form.Errors) error {
	return render(c, code, "product_form.html", merge(echo.Map{"Product": p}, formContext(product.Form, data, errs)))
}

// pathID parses a numeric path parameter. Anything else is a missing page.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// formData reads an urlencoded post.
func formData(c echo.Context) (form.Data, error) {
	values, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "malformed form data")
	}
	return form.FromValues(values), nil
}
