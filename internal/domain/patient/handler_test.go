package patient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler(sel RecorderSelector) (*Handler, *testEnv, *echo.Echo) {
	env := newTestEnv(sel)
	return NewHandler(env.svc, NewActions(env.svc, zerolog.Nop())), env, echo.New()
}

const registrationBody = `{
	"firstName": "Jane",
	"lastName": "Doe",
	"dateOfBirth": "1985-04-12",
	"gender": "female",
	"address": "1 Main St",
	"phone": "555-0100",
	"email": "jane@example.com",
	"bloodType": "unknown",
	"hasInsurance": false,
	"insuranceProvider": "ignored",
	"hasAllergies": true,
	"allergies": "penicillin"
}`

func TestHandler_Register(t *testing.T) {
	h, env, e := newTestHandler(withStaff())
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(registrationBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool    `json:"success"`
		Data    Patient `json:"data"`
		Seed    struct {
			Status string `json:"status"`
		} `json:"seed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Seed.Status != "created" {
		t.Errorf("unexpected response %s", rec.Body.String())
	}
	stored := env.repo.patients[resp.Data.ID]
	if stored == nil {
		t.Fatal("expected stored patient")
	}
	if stored.BloodType != nil || stored.InsuranceProvider != nil {
		t.Error("expected blood type and insurance to be NULL")
	}
	if len(stored.Allergies) != 1 || stored.Allergies[0] != "penicillin" {
		t.Errorf("unexpected allergies %v", stored.Allergies)
	}
}

func TestHandler_Register_Invalid(t *testing.T) {
	h, _, e := newTestHandler(withStaff())
	req := httptest.NewRequest(http.MethodPost, "/patients", strings.NewReader(`{"firstName":"Jane"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h.Register(c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Errorf("expected failed result, got %s", rec.Body.String())
	}
}

func TestHandler_Get_NotFound(t *testing.T) {
	h, _, e := newTestHandler(withStaff())
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Get(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandler_Update(t *testing.T) {
	h, env, e := newTestHandler(withStaff())
	p := storedPatient(t, env, "Alice")

	body, _ := json.Marshal(map[string]interface{}{
		"first_name":    "Alicia",
		"last_name":     p.LastName,
		"date_of_birth": p.DateOfBirth,
		"gender":        p.Gender,
		"address":       p.Address,
		"phone":         p.Phone,
		"email":         p.Email,
		"blood_type":    "AB+",
		"status":        "Discharged",
	})
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	stored := env.repo.patients[p.ID]
	if stored.FirstName != "Alicia" || stored.BloodType == nil || *stored.BloodType != "AB+" {
		t.Errorf("unexpected stored patient %+v", stored)
	}
}

func TestHandler_Update_FormDateLayout(t *testing.T) {
	h, env, e := newTestHandler(withStaff())
	p := storedPatient(t, env, "Alice")

	body := `{"first_name":"Alice","last_name":"Doe","date_of_birth":"1979-11-30","gender":"female","address":"1 Main St","phone":"555-0100","email":"jane@example.com"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	dob := env.repo.patients[p.ID].DateOfBirth
	if !dob.Equal(time.Date(1979, 11, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date of birth %s", dob)
	}
}

func TestHandler_Update_BadDate(t *testing.T) {
	h, env, e := newTestHandler(withStaff())
	p := storedPatient(t, env, "Alice")

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"date_of_birth":"30/11/1979"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	err := h.Update(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Update_NotFound(t *testing.T) {
	h, _, e := newTestHandler(withStaff())
	body := `{"first_name":"A","last_name":"B","date_of_birth":"1990-01-01T00:00:00Z","gender":"x","address":"y","phone":"1","email":"a@b.c"}`
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	h.Update(c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_Delete(t *testing.T) {
	h, env, e := newTestHandler(withStaff())
	p := storedPatient(t, env, "Alice")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
	if len(env.repo.patients) != 0 {
		t.Error("expected patient to be deleted")
	}
}

func TestHandler_List(t *testing.T) {
	h, env, e := newTestHandler(withStaff())
	storedPatient(t, env, "Alice")
	storedPatient(t, env, "Bob")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/patients?name=bob", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("expected one match, got %s", rec.Body.String())
	}
}
