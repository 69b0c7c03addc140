package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/session"
	"github.com/google/uuid"
)

func captureOwner(got *model.Owner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = OwnerFrom(r.Context())
	})
}

func TestIdentifyIssuesDeviceCookie(t *testing.T) {
	t.Parallel()

	var owner model.Owner
	h := Identify(nil, false)(captureOwner(&owner))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if owner.Authenticated() {
		t.Fatalf("anonymous request should not be authenticated")
	}
	if _, err := uuid.Parse(owner.DeviceID); err != nil {
		t.Fatalf("device id %q is not a uuid", owner.DeviceID)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == DeviceCookie && c.Value == owner.DeviceID {
			found = true
		}
	}
	if !found {
		t.Fatalf("device cookie not set")
	}
}

func TestIdentifyKeepsExistingDevice(t *testing.T) {
	t.Parallel()

	var owner model.Owner
	h := Identify(nil, false)(captureOwner(&owner))

	deviceID := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DeviceCookie, Value: deviceID})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if owner.DeviceID != deviceID {
		t.Fatalf("device id = %q, want %q", owner.DeviceID, deviceID)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookie should be set for a known device")
	}
}

func TestIdentifySignedInUser(t *testing.T) {
	t.Parallel()

	sessions := session.NewStore(time.Minute)
	t.Cleanup(sessions.Close)

	userID := uuid.New()
	token, err := sessions.Create(userID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	var owner model.Owner
	h := Identify(sessions, false)(captureOwner(&owner))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	h.ServeHTTP(httptest.NewRecorder(), req)

	if owner.UserID != userID {
		t.Fatalf("user id = %v, want %v", owner.UserID, userID)
	}
}

func TestRequireUser(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireUser(next)

	tests := []struct {
		name   string
		owner  model.Owner
		status int
	}{
		{"anonymous", model.Owner{DeviceID: "d"}, http.StatusSeeOther},
		{"signed in", model.Owner{UserID: uuid.New()}, http.StatusNoContent},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/profile", nil)
			req = req.WithContext(WithOwner(req.Context(), tt.owner))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}
