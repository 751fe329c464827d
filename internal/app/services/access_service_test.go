package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emre/learnportal/internal/app/models"
	"github.com/emre/learnportal/internal/pkg/apperrors"
	"github.com/emre/learnportal/internal/pkg/auth"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "learnportal-test",
	})
}

func newTestAccessService(store *fakeStudentStore) AccessService {
	return NewAccessService(store, testJWTService(), zerolog.Nop())
}

func TestAccessServiceIssueRotatesToken(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "old-token"})

	svc := newTestAccessService(store)
	token, err := svc.Issue(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" || token == "old-token" {
		t.Fatalf("expected a fresh token, got %q", token)
	}

	if _, err := svc.Validate(context.Background(), "old-token"); !errors.Is(err, apperrors.ErrInvalidAccessToken) {
		t.Errorf("old token should be invalid, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), token); err != nil {
		t.Errorf("new token should validate, got %v", err)
	}
}

func TestAccessServiceValidate(t *testing.T) {
	store := newFakeStudentStore()
	store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok-ada"})
	store.add(&models.Student{Name: "Ben", Email: "ben@example.com", AccessToken: "tok-ben", IsAccessUsed: true})

	svc := newTestAccessService(store)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"valid unused token", "tok-ada", nil},
		{"already consumed token", "tok-ben", apperrors.ErrAccessTokenUsed},
		{"unknown token", "nope", apperrors.ErrInvalidAccessToken},
		{"empty token", "", apperrors.ErrInvalidAccessToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.Validate(context.Background(), tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info.Name != "Ada" || info.Email != "ada@example.com" {
				t.Errorf("unexpected identity: %+v", info)
			}
		})
	}
}

func TestAccessServiceValidateDoesNotConsume(t *testing.T) {
	store := newFakeStudentStore()
	store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok"})

	svc := newTestAccessService(store)
	for i := 0; i < 3; i++ {
		if _, err := svc.Validate(context.Background(), "tok"); err != nil {
			t.Fatalf("validation %d failed: %v", i, err)
		}
	}

	if _, err := svc.Redeem(context.Background(), "tok", "ada@example.com"); err != nil {
		t.Fatalf("token should still be redeemable after validations: %v", err)
	}
}

func TestAccessServiceRedeem(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "Ada@Example.com", AccessToken: "tok"})

	svc := newTestAccessService(store)
	resp, err := svc.Redeem(context.Background(), "tok", "  ada@example.COM ")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	if resp.Session.ID != student.ID || resp.Session.Role != models.RoleStudent {
		t.Errorf("unexpected session: %+v", resp.Session)
	}
	if resp.Token.AccessToken == "" || resp.Token.TokenType != "Bearer" {
		t.Errorf("unexpected token response: %+v", resp.Token)
	}

	claims, err := testJWTService().ValidateAndExtractClaims(resp.Token.AccessToken)
	if err != nil {
		t.Fatalf("session token should verify: %v", err)
	}
	if claims.Role != string(models.RoleStudent) || claims.SubjectID != student.ID {
		t.Errorf("unexpected claims: %+v", claims)
	}

	stored, _ := store.GetByID(context.Background(), student.ID)
	if !stored.IsAccessUsed {
		t.Error("token should be consumed after redemption")
	}
	if stored.LastActive == nil {
		t.Error("redemption should stamp last_active")
	}

	if _, err := svc.Redeem(context.Background(), "tok", "ada@example.com"); !errors.Is(err, apperrors.ErrAccessTokenUsed) {
		t.Errorf("second redemption should report a used token, got %v", err)
	}
}

func TestAccessServiceRedeemEmailMismatchKeepsTokenUsable(t *testing.T) {
	store := newFakeStudentStore()
	store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok"})

	svc := newTestAccessService(store)
	if _, err := svc.Redeem(context.Background(), "tok", "wrong@example.com"); !errors.Is(err, apperrors.ErrEmailMismatch) {
		t.Fatalf("want email mismatch, got %v", err)
	}

	// The failed attempt must not burn the token.
	if _, err := svc.Redeem(context.Background(), "tok", "ada@example.com"); err != nil {
		t.Fatalf("token should survive a mismatched attempt: %v", err)
	}
}

func TestAccessServiceConcurrentRedeemSingleWinner(t *testing.T) {
	store := newFakeStudentStore()
	store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok"})

	svc := newTestAccessService(store)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Redeem(context.Background(), "tok", "ada@example.com")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, apperrors.ErrAccessTokenUsed):
		default:
			t.Errorf("unexpected error from racing redeem: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one successful redemption, got %d", wins)
	}
}

func TestAccessServiceReset(t *testing.T) {
	store := newFakeStudentStore()
	student := store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok", IsAccessUsed: true})

	svc := newTestAccessService(store)
	updated, err := svc.Reset(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if updated.AccessToken == "" || updated.AccessToken == "tok" {
		t.Errorf("reset should mint a fresh token, got %q", updated.AccessToken)
	}
	if updated.IsAccessUsed {
		t.Error("reset should clear the consumed flag")
	}

	if _, err := svc.Reset(context.Background(), 9999); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("want student not found, got %v", err)
	}
}

func TestAccessServiceEnsureFreshToken(t *testing.T) {
	store := newFakeStudentStore()
	fresh := store.add(&models.Student{Name: "Ada", Email: "ada@example.com", AccessToken: "tok-fresh"})
	used := store.add(&models.Student{Name: "Ben", Email: "ben@example.com", AccessToken: "tok-used", IsAccessUsed: true})
	blank := store.add(&models.Student{Name: "Cem", Email: "cem@example.com"})

	svc := newTestAccessService(store)

	student, refreshed, err := svc.EnsureFreshToken(context.Background(), fresh.ID)
	if err != nil || refreshed {
		t.Fatalf("unused token should be kept, refreshed=%v err=%v", refreshed, err)
	}
	if student.AccessToken != "tok-fresh" {
		t.Errorf("token should be unchanged, got %q", student.AccessToken)
	}

	student, refreshed, err = svc.EnsureFreshToken(context.Background(), used.ID)
	if err != nil || !refreshed {
		t.Fatalf("consumed token should be rotated, refreshed=%v err=%v", refreshed, err)
	}
	if student.AccessToken == "tok-used" || student.IsAccessUsed {
		t.Errorf("rotation should yield a fresh unused token: %+v", student)
	}

	_, refreshed, err = svc.EnsureFreshToken(context.Background(), blank.ID)
	if err != nil || !refreshed {
		t.Fatalf("missing token should be minted, refreshed=%v err=%v", refreshed, err)
	}
}
