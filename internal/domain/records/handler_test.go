package records

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carebook/carebook/internal/domain/activity"
	"github.com/carebook/carebook/internal/domain/carecircle"
	"github.com/carebook/carebook/internal/domain/profile"
	"github.com/carebook/carebook/internal/platform/auth"
)

type mockLinkRepo struct {
	links map[uuid.UUID]*carecircle.Link
}

func (m *mockLinkRepo) GetByID(_ context.Context, id uuid.UUID) (*carecircle.Link, error) {
	link, ok := m.links[id]
	if !ok {
		return nil, carecircle.ErrNotFound
	}
	return link, nil
}

type handlerFixture struct {
	e            *echo.Echo
	links        *mockLinkRepo
	appointments *mockRowRepo
	medications  *mockRowRepo
	audit        *captureActivityRepo

	linkID       uuid.UUID
	ownerProfile uuid.UUID
}

func newHandlerFixture() *handlerFixture {
	links := &mockLinkRepo{links: make(map[uuid.UUID]*carecircle.Link)}
	appointments := newMockRowRepo()
	medications := newMockRowRepo()
	actors := &mockOwnsRepo{owned: make(map[uuid.UUID]string)}
	audit := &captureActivityRepo{}

	circle := carecircle.NewService(links)
	feed := activity.NewService(audit, zerolog.Nop())
	svc := NewService(appointments, medications, profile.NewService(actors, zerolog.Nop()), feed)

	e := echo.New()
	NewHandler(circle, svc, feed).RegisterRoutes(e.Group("/api/v1"))

	f := &handlerFixture{
		e:            e,
		links:        links,
		appointments: appointments,
		medications:  medications,
		audit:        audit,
		linkID:       uuid.New(),
		ownerProfile: uuid.New(),
	}
	f.links.links[f.linkID] = &carecircle.Link{
		ID:             f.linkID,
		RequesterID:    "owner-1",
		RecipientID:    "caller-1",
		Status:         carecircle.StatusAccepted,
		Relationship:   "Family",
		OwnerProfileID: &f.ownerProfile,
	}
	return f
}

// request runs one HTTP call through the full router. An empty caller leaves
// the request anonymous.
func (f *handlerFixture) request(t *testing.T, caller, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if caller != "" {
		req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, caller))
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

func assertMessage(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	body := decodeBody(t, rec)
	if body["message"] != want {
		t.Errorf("message = %v, want %q", body["message"], want)
	}
}

func TestCreateAppointmentEndToEnd(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"Dental","type":"cleaning","date":"9/1/2026","time":"14:30"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	appt, ok := body["appointment"].(map[string]interface{})
	if !ok {
		t.Fatalf("appointment missing from response: %v", body)
	}
	if appt["date"] != "2026-09-01" {
		t.Errorf("date = %v, want normalized 2026-09-01", appt["date"])
	}
	if appt["id"] == "" || appt["id"] == nil {
		t.Error("no id generated")
	}
	list, ok := body["appointments"].([]interface{})
	if !ok || len(list) != 1 {
		t.Errorf("appointments = %v, want the full updated list", body["appointments"])
	}

	if len(f.audit.entries) != 1 || f.audit.entries[0].Action != activity.ActionAdd {
		t.Errorf("audit entries = %v", f.audit.entries)
	}
}

func TestAnonymousCallerRejected(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"x"}}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	assertMessage(t, rec, "Authentication required.")
}

func TestWrongRecipientForbidden(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "stranger", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"x"}}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	assertMessage(t, rec, "Not allowed for this care circle member.")
}

func TestFriendRoleForbidden(t *testing.T) {
	f := newHandlerFixture()
	f.links.links[f.linkID].Relationship = "Neighbor"

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"x"}}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestPendingLinkForbidden(t *testing.T) {
	f := newHandlerFixture()
	f.links.links[f.linkID].Status = carecircle.StatusPending

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"x"}}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestUnknownLinkNotFound(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+uuid.NewString()+`","appointment":{"title":"x"}}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	assertMessage(t, rec, "Care circle link not found.")
}

func TestLinkWithoutOwnerProfile(t *testing.T) {
	f := newHandlerFixture()
	f.links.links[f.linkID].OwnerProfileID = nil

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"x"}}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	assertMessage(t, rec, "Owner profile is not available.")
}

func TestMissingLinkID(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"appointment":{"title":"x"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	assertMessage(t, rec, "linkId is required.")
}

func TestMalformedLinkID(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"not-a-uuid","appointment":{"title":"x"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	assertMessage(t, rec, "linkId is not a valid id.")
}

func TestMissingAppointmentBody(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	assertMessage(t, rec, "appointment is required.")
}

func TestIncompleteAppointmentRejected(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"Dental"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	msg, _ := body["message"].(string)
	if !strings.HasPrefix(msg, "missing required fields:") {
		t.Errorf("message = %q, want a missing-fields message", msg)
	}
}

func TestDuplicateAppointmentConflict(t *testing.T) {
	f := newHandlerFixture()
	f.appointments.rows[f.ownerProfile] = []Record{validAppointment("appt-1")}

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"id":"appt-1","title":"Dental","type":"cleaning","date":"2026-09-01","time":"14:30"}}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	assertMessage(t, rec, "ID already exists.")
}

func TestUpdateAppointmentEndToEnd(t *testing.T) {
	f := newHandlerFixture()
	f.appointments.rows[f.ownerProfile] = []Record{validAppointment("appt-1")}

	rec := f.request(t, "caller-1", http.MethodPatch, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"id":"appt-1","date":"9/2/2026"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	appt := body["appointment"].(map[string]interface{})
	if appt["date"] != "2026-09-02" || appt["title"] != "Dental" {
		t.Errorf("appointment = %v, want merged record with normalized date", appt)
	}
}

func TestUpdateUnknownAppointment(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPatch, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"id":"missing","title":"x"}}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	assertMessage(t, rec, "Appointment not found.")
}

func TestDeleteAppointmentEndToEnd(t *testing.T) {
	f := newHandlerFixture()
	f.appointments.rows[f.ownerProfile] = []Record{validAppointment("appt-1")}

	rec := f.request(t, "caller-1", http.MethodDelete, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointmentId":"appt-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["deleted"] != true {
		t.Errorf("deleted = %v, want true", body["deleted"])
	}
	list, _ := body["appointments"].([]interface{})
	if len(list) != 0 {
		t.Errorf("appointments = %v, want empty", list)
	}
}

func TestDeleteUnknownMedication(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodDelete, "/api/v1/care-circle/medications",
		`{"linkId":"`+f.linkID.String()+`","medicationId":"missing"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	assertMessage(t, rec, "Medication not found.")
}

func TestCreateMedicationEndToEnd(t *testing.T) {
	f := newHandlerFixture()

	rec := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/medications",
		`{"linkId":"`+f.linkID.String()+`","medication":{"name":"Metformin","dosage":"500mg","frequency":"daily","timesPerDay":2}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	med, ok := body["medication"].(map[string]interface{})
	if !ok || med["name"] != "Metformin" {
		t.Errorf("medication = %v", body["medication"])
	}
	if _, ok := body["medications"].([]interface{}); !ok {
		t.Errorf("medications list missing: %v", body)
	}
}

func TestListAppointments(t *testing.T) {
	f := newHandlerFixture()
	f.appointments.rows[f.ownerProfile] = []Record{validAppointment("appt-1"), validAppointment("appt-2")}

	rec := f.request(t, "caller-1", http.MethodGet, "/api/v1/care-circle/appointments?linkId="+f.linkID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	list, _ := body["appointments"].([]interface{})
	if len(list) != 2 {
		t.Errorf("len(appointments) = %d, want 2", len(list))
	}
}

func TestActivityFeedEndToEnd(t *testing.T) {
	f := newHandlerFixture()

	post := f.request(t, "caller-1", http.MethodPost, "/api/v1/care-circle/appointments",
		`{"linkId":"`+f.linkID.String()+`","appointment":{"title":"Dental","type":"cleaning","date":"2026-09-01","time":"14:30"}}`)
	if post.Code != http.StatusOK {
		t.Fatalf("setup mutation failed: %s", post.Body.String())
	}

	rec := f.request(t, "caller-1", http.MethodGet, "/api/v1/care-circle/activity?linkId="+f.linkID.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if _, ok := body["entries"]; !ok {
		t.Errorf("entries missing: %v", body)
	}
}
