package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/app/models/dto"
	"github.com/emre/learnportal/internal/pkg/apperrors"
)

const testBaseURL = "https://portal.example.com"

func newTestStudentService(store *fakeStudentStore, mailer *fakeEmailService) StudentService {
	access := NewAccessService(store, testJWTService(), zerolog.Nop())
	return NewStudentService(store, access, mailer, testBaseURL+"/", zerolog.Nop())
}

func TestStudentServiceCreateIssuesToken(t *testing.T) {
	store := newFakeStudentStore()
	svc := newTestStudentService(store, &fakeEmailService{})

	student, err := svc.Create(context.Background(), &dto.CreateStudentRequest{Name: " Ada ", Email: " ada@example.com "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if student.Name != "Ada" || student.Email != "ada@example.com" {
		t.Errorf("fields should be trimmed: %+v", student)
	}
	if student.AccessToken == "" {
		t.Error("new student should carry a fresh access token")
	}
	if student.IsAccessUsed {
		t.Error("new token should be unused")
	}
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := newTestStudentService(newFakeStudentStore(), &fakeEmailService{})

	for _, req := range []*dto.CreateStudentRequest{
		{Name: "", Email: "a@b.com"},
		{Name: "Ada", Email: "   "},
	} {
		if _, err := svc.Create(context.Background(), req); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("Create(%+v): want validation error, got %v", req, err)
		}
	}
}

func TestStudentServiceUpdateKeepsToken(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok"})

	svc := newTestStudentService(store, &fakeEmailService{})
	updated, err := svc.Update(context.Background(), student.ID, &dto.UpdateStudentRequest{Name: "Ada L.", Email: "ada.l@example.com"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Ada L." || updated.Email != "ada.l@example.com" {
		t.Errorf("profile not updated: %+v", updated)
	}
	if updated.AccessToken != "tok" {
		t.Errorf("update must not rotate the token, got %q", updated.AccessToken)
	}

	if _, err := svc.Update(context.Background(), 9999, &dto.UpdateStudentRequest{Name: "X", Email: "x@y.com"}); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("want student not found, got %v", err)
	}
}

func TestStudentServiceDelete(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "ada@example.com"})

	svc := newTestStudentService(store, &fakeEmailService{})
	if err := svc.Delete(context.Background(), student.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), student.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestStudentServiceSendAccessEmail(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok-live"})
	mailer := &fakeEmailService{}

	svc := newTestStudentService(store, mailer)
	resp, err := svc.SendAccessEmail(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("SendAccessEmail: %v", err)
	}
	if !resp.Sent {
		t.Error("delivery should be reported as sent")
	}
	wantURL := testBaseURL + "/access/tok-live"
	if resp.AccessURL != wantURL {
		t.Errorf("access url = %q, want %q", resp.AccessURL, wantURL)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "ada@example.com" {
		t.Errorf("unexpected recipients: %v", mailer.sent)
	}
}

func TestStudentServiceSendAccessEmailRotatesUsedToken(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok-burnt", IsAccessUsed: true})
	mailer := &fakeEmailService{}

	svc := newTestStudentService(store, mailer)
	resp, err := svc.SendAccessEmail(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("SendAccessEmail: %v", err)
	}
	if strings.Contains(resp.AccessURL, "tok-burnt") {
		t.Error("consumed token should have been rotated before mailing")
	}

	stored, _ := store.GetByID(context.Background(), student.ID)
	if stored.IsAccessUsed || stored.AccessToken == "tok-burnt" {
		t.Errorf("student should hold a fresh unused token: %+v", stored)
	}
	if !strings.HasSuffix(resp.AccessURL, stored.AccessToken) {
		t.Errorf("mailed link %q should carry the stored token %q", resp.AccessURL, stored.AccessToken)
	}
}

func TestStudentServiceSendAccessEmailMailFailure(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok-burnt", IsAccessUsed: true})
	mailer := &fakeEmailService{sendErr: errors.New("smtp: connection refused")}

	svc := newTestStudentService(store, mailer)
	resp, err := svc.SendAccessEmail(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("mail failure should not be an error: %v", err)
	}
	if resp.Sent {
		t.Error("delivery should be reported as not sent")
	}
	if resp.AccessURL == "" {
		t.Error("response should still carry the link for manual delivery")
	}

	// The refreshed token survives the failed delivery.
	stored, _ := store.GetByID(context.Background(), student.ID)
	if stored.IsAccessUsed || stored.AccessToken == "tok-burnt" {
		t.Errorf("token refresh must not be rolled back: %+v", stored)
	}
	if !strings.HasSuffix(resp.AccessURL, stored.AccessToken) {
		t.Errorf("reported link %q should match stored token %q", resp.AccessURL, stored.AccessToken)
	}
}

func TestStudentServiceSendAccessEmailUnknownStudent(t *testing.T) {
	svc := newTestStudentService(newFakeStudentStore(), &fakeEmailService{})
	if _, err := svc.SendAccessEmail(context.Background(), 42); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("want student not found, got %v", err)
	}
}
