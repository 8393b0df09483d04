package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"reware/internal/domain"
	"reware/internal/http/handlers"
	"reware/internal/repos"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	app := fiber.New()
	app.Use(requestid.New())
	handlers.Register(app, handlers.NewDeps(db))
	return app
}

func jsonReq(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		t.Fatalf("bad json %s: %v", b, err)
	}
}

func checkoutBody(ids ...string) map[string]any {
	cart := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		cart = append(cart, map[string]any{"id": id, "price": 1})
	}
	addr := map[string]any{"name": "Max Mustermann", "street": "Hauptstraße 1", "zip": "10115", "city": "Berlin"}
	return map[string]any{
		"cart":            cart,
		"email":           "kunde@example.com",
		"billingAddress":  addr,
		"shippingAddress": addr,
		"paymentMethod":   "paypal",
		"insurance":       false,
	}
}

// The seed catalog ships unit 1001 (iPhone 11, 329.00).
func TestCheckoutEndpoint(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(jsonReq("POST", "/checkout", checkoutBody("1001")))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var out struct {
		OrderID string  `json:"orderId"`
		Total   float64 `json:"total"`
	}
	decode(t, resp, &out)
	if !strings.HasPrefix(out.OrderID, "BEST-") || out.Total != 329 {
		t.Fatalf("bad confirmation: %+v", out)
	}

	// the same unit is gone now: conflict
	resp, err = app.Test(jsonReq("POST", "/checkout", checkoutBody("1001")))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("want 409 for sold unit, got %d", resp.StatusCode)
	}
}

func TestCheckoutEndpoint_EmptyCart(t *testing.T) {
	app := newApp(t)
	resp, err := app.Test(jsonReq("POST", "/checkout", checkoutBody()))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("want 400 for empty cart, got %d", resp.StatusCode)
	}
}

func TestCheckoutEndpoint_NumericUnitID(t *testing.T) {
	app := newApp(t)
	body := checkoutBody()
	body["cart"] = []map[string]any{{"id": 1002, "price": 349}}
	resp, err := app.Test(jsonReq("POST", "/checkout", body))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("numeric unit ids must work, got %d", resp.StatusCode)
	}
}

func TestSellAndMySales(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(jsonReq("POST", "/sell", map[string]any{
		"email": "verkauf@example.com", "device": "iPhone X", "specs": "64 GB", "price": 120,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	var sold struct {
		SaleID string `json:"saleId"`
	}
	decode(t, resp, &sold)
	if !strings.HasPrefix(sold.SaleID, "SELL-") {
		t.Fatalf("bad sale id %q", sold.SaleID)
	}

	resp, err = app.Test(jsonReq("POST", "/my-sales", map[string]any{"email": "verkauf@example.com"}))
	if err != nil {
		t.Fatal(err)
	}
	var mine struct {
		Sales []domain.Sale `json:"sales"`
	}
	decode(t, resp, &mine)
	if len(mine.Sales) != 1 || mine.Sales[0].Status != domain.SaleStatusPending {
		t.Fatalf("bad my-sales view: %+v", mine.Sales)
	}
}

func TestMyOrdersFilterByEmail(t *testing.T) {
	app := newApp(t)

	if resp, err := app.Test(jsonReq("POST", "/checkout", checkoutBody("1003"))); err != nil || resp.StatusCode != 200 {
		t.Fatalf("checkout failed: %v %v", err, resp)
	}

	resp, err := app.Test(jsonReq("POST", "/my-orders", map[string]any{"email": "kunde@example.com"}))
	if err != nil {
		t.Fatal(err)
	}
	var mine struct {
		Orders []domain.Order `json:"orders"`
	}
	decode(t, resp, &mine)
	if len(mine.Orders) != 1 || mine.Orders[0].Email != "kunde@example.com" {
		t.Fatalf("bad my-orders view: %+v", mine.Orders)
	}

	resp, err = app.Test(jsonReq("POST", "/my-orders", map[string]any{"email": "andere@example.com"}))
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &mine)
	if len(mine.Orders) != 0 {
		t.Fatalf("want no orders for other email, got %+v", mine.Orders)
	}
}

func TestAdminOrderStatusUpdate(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(jsonReq("POST", "/checkout", checkoutBody("1004")))
	if err != nil {
		t.Fatal(err)
	}
	var placed struct {
		OrderID string `json:"orderId"`
	}
	decode(t, resp, &placed)

	resp, err = app.Test(jsonReq("POST", "/admin/orders", map[string]any{
		"orderId": placed.OrderID, "status": domain.OrderStatusShipped,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/admin/orders", nil))
	if err != nil {
		t.Fatal(err)
	}
	var list struct {
		Orders []domain.Order `json:"orders"`
	}
	decode(t, resp, &list)
	if len(list.Orders) != 1 || list.Orders[0].Status != domain.OrderStatusShipped || list.Orders[0].ShippedDate == "" {
		t.Fatalf("shipped order must carry a shippedDate: %+v", list.Orders)
	}

	// unknown id: 404, nothing changes
	resp, err = app.Test(jsonReq("POST", "/admin/orders", map[string]any{
		"orderId": "BEST-missing", "status": domain.OrderStatusShipped,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("want 404, got %d", resp.StatusCode)
	}
}

func TestAdminCatalogReplaceAndRead(t *testing.T) {
	app := newApp(t)

	doc := domain.Catalog{
		"Nokia": {{ID: "nokia-3310", Name: "Nokia 3310", Units: []domain.Unit{
			{ID: "n-1", Condition: "Gut", Price: 49},
		}}},
	}
	resp, err := app.Test(jsonReq("POST", "/admin/catalog", doc))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/admin/catalog", nil))
	if err != nil {
		t.Fatal(err)
	}
	var got domain.Catalog
	decode(t, resp, &got)
	if len(got) != 1 || len(got["Nokia"]) != 1 || got["Nokia"][0].Units[0].ID != "n-1" {
		t.Fatalf("bulk replace not visible: %+v", got)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/register", map[string]any{
		"username": "maria", "email": "maria@example.com", "password": "Sichere5Wahl",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("want 201, got %d", resp.StatusCode)
	}

	resp, err = app.Test(jsonReq("POST", "/api/register", map[string]any{
		"username": "maria", "email": "maria2@example.com", "password": "Sichere5Wahl",
	}))
	if err != nil {
		t.Fatal(err)
	}
	var msg struct {
		Message string `json:"message"`
	}
	decode(t, resp, &msg)
	if resp.StatusCode != fiber.StatusBadRequest || msg.Message != "Nutzername bereits vergeben" {
		t.Fatalf("want duplicate-username error, got %d %q", resp.StatusCode, msg.Message)
	}

	resp, err = app.Test(jsonReq("POST", "/api/register", map[string]any{
		"username": "marta", "email": "maria@example.com", "password": "Sichere5Wahl",
	}))
	if err != nil {
		t.Fatal(err)
	}
	decode(t, resp, &msg)
	if resp.StatusCode != fiber.StatusBadRequest || msg.Message != "E-Mail bereits vergeben" {
		t.Fatalf("want duplicate-email error, got %d %q", resp.StatusCode, msg.Message)
	}

	resp, err = app.Test(jsonReq("POST", "/api/login", map[string]any{
		"username": "maria", "password": "Sichere5Wahl",
	}))
	if err != nil {
		t.Fatal(err)
	}
	var login struct {
		Message  string `json:"message"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	decode(t, resp, &login)
	if resp.StatusCode != fiber.StatusOK || login.Message != "Login erfolgreich" || login.Email != "maria@example.com" {
		t.Fatalf("bad login response: %d %+v", resp.StatusCode, login)
	}

	resp, err = app.Test(jsonReq("POST", "/api/login", map[string]any{
		"username": "maria", "password": "falsch",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}
}
