package web_test

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/stockroom/internal/adapters/sqlstore"
	"github.com/example/stockroom/internal/adapters/web"
	"github.com/example/stockroom/internal/app"
	"github.com/example/stockroom/internal/core/admin"
	"github.com/example/stockroom/internal/core/auth"
	"github.com/example/stockroom/internal/core/product"
	"github.com/example/stockroom/internal/core/tour"
	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/primary"
)

type testApp struct {
	e        *echo.Echo
	db       *db.DB
	auth     *app.AuthServiceImpl
	products *app.ProductServiceImpl
}

// newTestApp wires the whole stack over an in-memory database.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	database, err := db.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := database.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logRepo := sqlstore.NewAdminLogRepository(database)
	logWriter := sqlstore.NewLogWriterAdapter(logRepo)

	authService, err := app.NewAuthService(
		sqlstore.NewUserRepository(database),
		sqlstore.NewSessionRepository(database),
		app.AuthConfig{SecretKey: []byte("web-test-secret"), BcryptCost: bcrypt.MinCost},
	)
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}
	site, err := admin.NewSite(tour.Admin, product.Admin)
	if err != nil {
		t.Fatalf("failed to build admin site: %v", err)
	}
	products := app.NewProductService(sqlstore.NewProductRepository(database), logWriter, product.DefaultLowStockThreshold)

	e, err := web.NewServer(web.Config{
		LogLevel:          "off",
		LoginURL:          "/login/",
		LoginRedirect:     "/list/",
		LogoutRedirect:    "/home/",
		MetricsEnabled:    true,
		LowStockThreshold: product.DefaultLowStockThreshold,
	}, web.Services{
		Products: products,
		Tours:    app.NewTourService(sqlstore.NewTourRepository(database), logWriter),
		Auth:     authService,
		Admin:    app.NewAdminService(site, sqlstore.NewAdminRepository(database), logRepo, logWriter),
		Ping:     database.PingContext,
	})
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}

	return &testApp{e: e, db: database, auth: authService, products: products}
}

// client keeps cookies between requests like a browser.
type client struct {
	t       *testing.T
	e       *echo.Echo
	cookies map[string]*http.Cookie
}

func (a *testApp) client(t *testing.T) *client {
	return &client{t: t, e: a.e, cookies: map[string]*http.Cookie{}}
}

func (cl *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	cl.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, c := range cl.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	rec := httptest.NewRecorder()
	cl.e.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = c
	}
	return rec
}

func (cl *client) get(target string) *httptest.ResponseRecorder {
	cl.t.Helper()
	return cl.do(http.MethodGet, target, nil)
}

// post submits form with the anti-forgery token, fetching one first if needed.
func (cl *client) post(target string, form url.Values) *httptest.ResponseRecorder {
	cl.t.Helper()
	if _, ok := cl.cookies["csrftoken"]; !ok {
		cl.get("/home/")
	}
	if form == nil {
		form = url.Values{}
	}
	form.Set("csrfmiddlewaretoken", cl.cookies["csrftoken"].Value)
	return cl.do(http.MethodPost, target, form)
}

func (cl *client) login(username, password string) {
	cl.t.Helper()
	rec := cl.post("/login/", url.Values{"username": {username}, "password": {password}})
	if rec.Code != http.StatusFound {
		cl.t.Fatalf("login as %s failed with status %d:\n%s", username, rec.Code, rec.Body.String())
	}
}

func (a *testApp) createUser(t *testing.T, username string, staff bool) {
	t.Helper()
	_, err := a.auth.CreateUser(context.Background(), primary.CreateUserRequest{
		Username: username,
		Password: "s3cure-pass!",
		IsStaff:  staff,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
}

func productForm(name, sku, quantity string) url.Values {
	return url.Values{
		"name":     {name},
		"sku":      {sku},
		"price":    {"9.99"},
		"quantity": {quantity},
		"supplier": {"Acme"},
	}
}

func TestHome(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	cl := a.client(t)

	rec := cl.get("/")
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/home/")

	rec = cl.get("/home/")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "Inventory Management System")
	c.Assert(strings.Count(rec.Body.String(), "<li>"), qt.Equals, len(web.Lessons))

	// Missing trailing slash is added before routing.
	rec = cl.get("/home")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	c := qt.New(t)
	cl := newTestApp(t).client(t)

	rec := cl.get("/no-such-page/")
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
	c.Assert(rec.Body.String(), qt.Contains, "404 Not Found")
}

func TestMutatingRoutesRedirectToLogin(t *testing.T) {
	a := newTestApp(t)
	_, err := a.products.CreateProduct(context.Background(), map[string]string{
		"name": "Widget", "sku": "W-1", "price": "1", "quantity": "20", "supplier": "Acme",
	})
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	for _, target := range []string{"/create/", "/update/1/", "/delete/1/"} {
		t.Run(target, func(t *testing.T) {
			c := qt.New(t)
			rec := a.client(t).get(target)
			c.Assert(rec.Code, qt.Equals, http.StatusFound)
			c.Assert(rec.Header().Get("Location"), qt.Equals, "/login/?next="+url.QueryEscape(target))
		})
	}
}

func TestLoginRedirectsToNext(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	cl := a.client(t)

	rec := cl.get("/login/?next=%2Fcreate%2F")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `name="next" value="/create/"`)

	rec = cl.post("/login/", url.Values{"username": {"clerk"}, "password": {"s3cure-pass!"}, "next": {"/create/"}})
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/create/")
	c.Assert(cl.cookies[web.SessionCookie], qt.IsNotNil)

	rec = cl.get("/create/")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
}

func TestLoginRejectsOffsiteNext(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	cl := a.client(t)

	rec := cl.post("/login/", url.Values{"username": {"clerk"}, "password": {"s3cure-pass!"}, "next": {"https://evil.example/"}})
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/list/")
}

func TestLoginFailureIsGeneric(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "clerk", false)

	for name, creds := range map[string][2]string{
		"wrong password": {"clerk", "wrong-password"},
		"unknown user":   {"ghost", "s3cure-pass!"},
	} {
		t.Run(name, func(t *testing.T) {
			c := qt.New(t)
			cl := a.client(t)
			rec := cl.post("/login/", url.Values{"username": {creds[0]}, "password": {creds[1]}})
			c.Assert(rec.Code, qt.Equals, http.StatusOK)
			c.Assert(rec.Body.String(), qt.Contains, auth.MsgInvalidLogin)
			c.Assert(cl.cookies[web.SessionCookie], qt.IsNil)
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	cl := a.client(t)
	cl.login("clerk", "s3cure-pass!")

	rec := cl.post("/create/", productForm("Widget", "SKU001", "5"))
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/list/")

	// Quantity 5 is below the threshold of 10.
	rec = cl.get("/list/")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "Widget")
	c.Assert(rec.Body.String(), qt.Contains, `class="low-stock"`)
	c.Assert(rec.Body.String(), qt.Contains, "Low stock")

	// A second product with the same SKU is rejected on the form.
	rec = cl.post("/create/", productForm("Gadget", "SKU001", "50"))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, html.EscapeString(product.MsgDuplicateSKU))
	c.Assert(rec.Body.String(), qt.Contains, `value="Gadget"`)

	// Read after write.
	rec = cl.post("/update/1/", productForm("Widget Pro", "SKU001", "50"))
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	rec = cl.get("/detail/1/")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "<h1>Widget Pro</h1>")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "Low stock")

	rec = cl.get("/delete/1/")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "Are you sure")

	rec = cl.post("/delete/1/", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/list/")

	rec = cl.get("/detail/1/")
	c.Assert(rec.Code, qt.Equals, http.StatusNotFound)
}

func TestProductFormValidation(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	cl := a.client(t)
	cl.login("clerk", "s3cure-pass!")

	rec := cl.post("/create/", url.Values{"name": {"Widget"}, "price": {"abc"}, "quantity": {"-1"}})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	body := rec.Body.String()
	c.Assert(body, qt.Contains, "This field is required.")
	c.Assert(body, qt.Contains, "Enter a number.")
	c.Assert(body, qt.Contains, "Ensure this value is greater than or equal to 0.")

	sub := productForm("Widget", "WID-1", "3")
	sub.Set("price", "9.999")
	rec = cl.post("/create/", sub)
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "Ensure that there are no more than 2 decimal places.")

	list, err := a.products.ListProducts(context.Background(), "")
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 0)
}

func TestProductSearch(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	ctx := context.Background()
	for _, p := range []url.Values{
		productForm("Blue Mug", "MUG-B", "40"),
		productForm("Teapot", "POT-1", "40"),
	} {
		_, err := a.products.CreateProduct(ctx, map[string]string{
			"name": p.Get("name"), "sku": p.Get("sku"), "price": p.Get("price"),
			"quantity": p.Get("quantity"), "supplier": p.Get("supplier"),
		})
		c.Assert(err, qt.IsNil)
	}

	rec := a.client(t).get("/list/?q=pot")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "Teapot")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "Blue Mug")

	rec = a.client(t).get("/list/?q=mug-b")
	c.Assert(rec.Body.String(), qt.Contains, "Blue Mug")
}

func TestDetailNotFound(t *testing.T) {
	cl := newTestApp(t).client(t)

	for _, target := range []string{"/detail/42/", "/detail/abc/", "/detail/-1/"} {
		t.Run(target, func(t *testing.T) {
			qt.Assert(t, cl.get(target).Code, qt.Equals, http.StatusNotFound)
		})
	}
}

func TestUpdateMissingProductIsNotFound(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	cl := a.client(t)
	cl.login("clerk", "s3cure-pass!")

	qt.Assert(t, cl.get("/update/99/").Code, qt.Equals, http.StatusNotFound)
	qt.Assert(t, cl.post("/delete/99/", nil).Code, qt.Equals, http.StatusNotFound)
}

func TestRegisterMismatchCreatesNoUser(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	cl := a.client(t)

	rec := cl.post("/register/", url.Values{
		"username":  {"newbie"},
		"password1": {"s3cure-pass!"},
		"password2": {"different-pass!"},
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, html.EscapeString(auth.MsgPasswordMismatch))
	c.Assert(cl.cookies[web.SessionCookie], qt.IsNil)

	users, err := a.auth.ListUsers(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(users, qt.HasLen, 0)
}

func TestRegisterRejectsPasswordTooLongToHash(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	cl := a.client(t)

	long := strings.Repeat("s3cure-pa", 9) // 81 bytes
	rec := cl.post("/register/", url.Values{
		"username":  {"newbie"},
		"password1": {long},
		"password2": {long},
	})
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, html.EscapeString(auth.MsgPasswordTooLong))
	c.Assert(cl.cookies[web.SessionCookie], qt.IsNil)

	users, err := a.auth.ListUsers(context.Background())
	c.Assert(err, qt.IsNil)
	c.Assert(users, qt.HasLen, 0)
}

func TestRegisterLogsIn(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	cl := a.client(t)

	rec := cl.post("/register/", url.Values{
		"username":  {"newbie"},
		"password1": {"s3cure-pass!"},
		"password2": {"s3cure-pass!"},
	})
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/home/")

	rec = cl.get("/home/")
	c.Assert(rec.Body.String(), qt.Contains, "Signed in as <strong>newbie</strong>")
}

func TestLogoutRequiresPost(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	cl := a.client(t)
	cl.login("clerk", "s3cure-pass!")

	rec := cl.get("/logout/")
	c.Assert(rec.Code, qt.Equals, http.StatusMethodNotAllowed)
	c.Assert(cl.get("/create/").Code, qt.Equals, http.StatusOK)

	rec = cl.post("/logout/", nil)
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/home/")
	c.Assert(cl.cookies[web.SessionCookie], qt.IsNil)
	c.Assert(cl.get("/create/").Code, qt.Equals, http.StatusFound)
}

func TestPostWithoutCSRFTokenIsRejected(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	cl := a.client(t)
	cl.get("/login/")

	rec := cl.do(http.MethodPost, "/login/", url.Values{"username": {"clerk"}, "password": {"s3cure-pass!"}})
	c.Assert(rec.Code >= 400 && rec.Code < 500, qt.IsTrue, qt.Commentf("status %d", rec.Code))
	c.Assert(cl.cookies[web.SessionCookie], qt.IsNil)
}

func TestAdminAccess(t *testing.T) {
	a := newTestApp(t)
	a.createUser(t, "clerk", false)
	a.createUser(t, "boss", true)

	t.Run("anonymous", func(t *testing.T) {
		rec := a.client(t).get("/admin/")
		qt.Assert(t, rec.Code, qt.Equals, http.StatusFound)
		qt.Assert(t, rec.Header().Get("Location"), qt.Equals, "/login/?next=%2Fadmin%2F")
	})

	t.Run("non-staff", func(t *testing.T) {
		cl := a.client(t)
		cl.login("clerk", "s3cure-pass!")
		qt.Assert(t, cl.get("/admin/").Code, qt.Equals, http.StatusForbidden)
	})

	t.Run("staff", func(t *testing.T) {
		cl := a.client(t)
		cl.login("boss", "s3cure-pass!")
		rec := cl.get("/admin/")
		qt.Assert(t, rec.Code, qt.Equals, http.StatusOK)
		qt.Assert(t, rec.Body.String(), qt.Contains, "/admin/product/")
		qt.Assert(t, cl.get("/admin/widgets/").Code, qt.Equals, http.StatusNotFound)
	})
}

func TestAdminProductWorkflow(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	a.createUser(t, "boss", true)
	cl := a.client(t)
	cl.login("boss", "s3cure-pass!")

	rec := cl.post("/admin/product/add/", productForm("Anchor", "A-1", "3"))
	c.Assert(rec.Code, qt.Equals, http.StatusFound)
	c.Assert(rec.Header().Get("Location"), qt.Equals, "/admin/product/")

	other := productForm("Buoy", "B-1", "30")
	other.Set("supplier", "Harbor")
	c.Assert(cl.post("/admin/product/add/", other).Code, qt.Equals, http.StatusFound)

	rec = cl.post("/admin/product/add/", productForm("Copy", "A-1", "3"))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "Product with this SKU already exists.")

	rec = cl.get("/admin/product/?supplier=Harbor")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "Buoy")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "Anchor</a>")

	rec = cl.get("/admin/product/?q=anch")
	c.Assert(rec.Body.String(), qt.Contains, "Anchor")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "Buoy</a>")

	rec = cl.get("/admin/product/1/change/")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `value="A-1"`)

	changed := productForm("Anchor", "A-1", "12")
	c.Assert(cl.post("/admin/product/1/change/", changed).Code, qt.Equals, http.StatusFound)

	c.Assert(cl.post("/admin/product/2/delete/", nil).Code, qt.Equals, http.StatusFound)
	c.Assert(cl.get("/admin/product/2/change/").Code, qt.Equals, http.StatusNotFound)

	rec = cl.get("/admin/")
	body := rec.Body.String()
	c.Assert(body, qt.Contains, "Changed Quantity.")
	c.Assert(body, qt.Contains, "by boss")
}

func TestToursPage(t *testing.T) {
	c := qt.New(t)
	a := newTestApp(t)
	_, err := db.SeedFixtures(context.Background(), a.db)
	c.Assert(err, qt.IsNil)

	rec := a.client(t).get("/tours/?q=japan")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, "South Korea")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "Austria")
}

func TestStaticMetricsAndHealth(t *testing.T) {
	c := qt.New(t)
	cl := newTestApp(t).client(t)

	rec := cl.get("/static/style.css")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, ".low-stock")

	cl.get("/list/")
	rec = cl.get("/metrics")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `stockroom_http_requests_total{method="GET",route="/list/",status="200"}`)

	rec = cl.get("/healthz")
	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `"status":"ok"`)
}
