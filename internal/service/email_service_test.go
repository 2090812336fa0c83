package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/studizen-api/internal/config"
	"github.com/studizen-api/internal/constants"
	"github.com/studizen-api/internal/i18n"
)

func TestBuildOTPContent(t *testing.T) {
	tests := []struct {
		name                string
		locale              string
		purpose             string
		displayName         string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:        "register_id",
			locale:      i18n.LocaleID,
			purpose:     constants.OTPPurposeRegister,
			displayName: "Budi",
			wantSubjectContains: []string{
				"Kode pendaftaran",
			},
			wantBodyContains: []string{
				"Hai Budi",
				"1234",
				"10 menit",
			},
		},
		{
			name:        "reset_en",
			locale:      i18n.LocaleEN,
			purpose:     constants.OTPPurposeReset,
			displayName: "Budi",
			wantSubjectContains: []string{
				"password reset code",
			},
			wantBodyContains: []string{
				"Hi Budi",
				"1234",
				"10 minutes",
			},
		},
		{
			name:        "register_zh",
			locale:      i18n.LocaleZH,
			purpose:     constants.OTPPurposeRegister,
			displayName: "小明",
			wantSubjectContains: []string{
				"注册验证码",
			},
			wantBodyContains: []string{
				"小明，您好",
				"1234",
				"10 分钟",
			},
		},
		{
			name:    "empty_name_falls_back",
			locale:  i18n.LocaleID,
			purpose: constants.OTPPurposeRegister,
			wantBodyContains: []string{
				"Hai Studizen",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOTPContent(tt.displayName, "1234", tt.purpose, tt.locale, 10)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestSendOTPEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := svc.SendOTPEmail("to@example.com", "Budi", "1234", constants.OTPPurposeRegister, "id-ID"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}

	svc = NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendOTPEmail("to@example.com", "Budi", "1234", constants.OTPPurposeRegister, "id-ID"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestBuildFromAddress(t *testing.T) {
	if got := buildFromAddress("noreply@studizen.id", ""); got != "noreply@studizen.id" {
		t.Fatalf("plain from want noreply@studizen.id got %s", got)
	}
	got := buildFromAddress("noreply@studizen.id", "Studizen")
	if !strings.Contains(got, "noreply@studizen.id") || !strings.Contains(got, "Studizen") {
		t.Fatalf("named from should keep address and name, got %s", got)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}
